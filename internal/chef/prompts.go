package chef

import (
	"encoding/json"
	"fmt"
	"strings"

	"pantrychef/internal/recipe"
)

// Output token budgets for the two model calls.
const (
	VisionMaxTokens = 500
	RecipeMaxTokens = 2000
)

// VisionInstruction is sent with every photo.
const VisionInstruction = `Analyze this image and identify all food ingredients visible. List only the ingredient names, one per line. Be specific (e.g., "red bell pepper" not just "pepper"). If you see packaged items, identify the ingredient inside. Only list actual food ingredients, not utensils or containers.`

// RecipeSystemPrompt frames the recipe call.
const RecipeSystemPrompt = "You are a professional chef who creates delicious, practical recipes. Always respond with valid JSON only, no additional text."

const recipePromptTemplate = `You are an expert chef and recipe creator. Given the following ingredients: %s

Create 3 diverse, delicious recipes that use as many of these ingredients as possible. For each recipe, provide:

1. Recipe name
2. Brief description (1-2 sentences)
3. Preparation time
4. Number of servings
5. Difficulty level (easy/medium/hard)
6. Complete ingredient list with measurements (can include common pantry items like salt, pepper, oil)
7. Step-by-step instructions
8. One helpful cooking tip

Format the response as valid JSON with this structure:
{
  "recipes": [
    {
      "name": "Recipe Name",
      "description": "Description",
      "prepTime": "30 minutes",
      "servings": 4,
      "difficulty": "medium",
      "ingredients": ["ingredient 1", "ingredient 2"],
      "instructions": ["step 1", "step 2"],
      "tips": "Helpful tip"
    }
  ]
}`

// headerPrefixes mark preamble lines in the vision reply, matched case-insensitively.
// "ingredient" also covers "ingredients".
var headerPrefixes = []string{"ingredient", "found", "detected", "visible"}

// ParseIngredientLines turns the free-text vision reply into ingredient names:
// one per line, bullet markers and blank lines dropped, header lines skipped.
func ParseIngredientLines(text string) []string {
	names := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"-", "*", "•"} {
			if rest, ok := strings.CutPrefix(line, marker); ok {
				line = strings.TrimSpace(rest)
				break
			}
		}
		if line == "" || isHeader(line) {
			continue
		}
		if name := recipe.CleanText(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range headerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// BuildRecipePrompt embeds each ingredient as "name (quantity)", comma separated.
func BuildRecipePrompt(ingredients []recipe.Ingredient) string {
	parts := make([]string, len(ingredients))
	for i, ing := range ingredients {
		parts[i] = fmt.Sprintf("%s (%s)", ing.Name, ing.Quantity)
	}
	return fmt.Sprintf(recipePromptTemplate, strings.Join(parts, ", "))
}

// ParseRecipes decodes the JSON reply of the recipe call. An empty reply means no
// recipes; anything that is not the expected JSON object is an error.
func ParseRecipes(content string) ([]recipe.Recipe, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)
	if content == "" {
		return []recipe.Recipe{}, nil
	}

	var set recipe.Set
	if err := json.Unmarshal([]byte(content), &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipes JSON: %w", err)
	}
	if set.Recipes == nil {
		return []recipe.Recipe{}, nil
	}
	for i := range set.Recipes {
		set.Recipes[i].Sanitize()
	}
	return set.Recipes, nil
}
