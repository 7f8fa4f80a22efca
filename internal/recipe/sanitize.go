package recipe

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// CleanText strips any markup from model-produced text and trims it.
// Entities escaped by the policy are turned back into plain characters so
// "salt & pepper" survives unchanged.
func CleanText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

// Sanitize strips markup from every text field of the recipe in place.
func (r *Recipe) Sanitize() {
	r.Name = CleanText(r.Name)
	r.Description = CleanText(r.Description)
	r.PrepTime = CleanText(r.PrepTime)
	r.Difficulty = CleanText(r.Difficulty)
	r.Tips = CleanText(r.Tips)
	r.Ingredients = cleanAll(r.Ingredients)
	r.Instructions = cleanAll(r.Instructions)
}

func cleanAll(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if cleaned := CleanText(line); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
