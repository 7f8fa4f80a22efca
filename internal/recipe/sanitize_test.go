package recipe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"  plain  ":                      "plain",
		"salt & pepper":                  "salt & pepper",
		"<b>bold</b> basil":              "bold basil",
		"<script>alert(1)</script>thyme": "thyme",
		"":                               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanText(in), "input %q", in)
	}
}

func TestRecipeSanitize(t *testing.T) {
	r := Recipe{
		Name:         "<h1>Soup</h1>",
		Description:  "Warm & cozy",
		Difficulty:   " easy ",
		Ingredients:  []string{"<i>leek</i>", "  ", "stock"},
		Instructions: []string{"Chop", "<p>Simmer</p>"},
	}
	r.Sanitize()

	want := Recipe{
		Name:         "Soup",
		Description:  "Warm & cozy",
		Difficulty:   "easy",
		Ingredients:  []string{"leek", "stock"},
		Instructions: []string{"Chop", "Simmer"},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("sanitized recipe mismatch (-want +got):\n%s", diff)
	}
}
