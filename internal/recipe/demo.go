package recipe

// DemoIngredients returns the fixed ingredient list served when the model credential
// is missing or rejected.
func DemoIngredients() []string {
	return []string{"tomatoes", "onions", "garlic", "olive oil", "basil"}
}

// DemoRecipes returns the single fixed recipe served when the model credential
// is missing or rejected.
func DemoRecipes() []Recipe {
	return []Recipe{
		{
			Name:        "Classic Tomato Basil Pasta",
			Description: "A simple yet delicious Italian pasta dish with fresh ingredients and aromatic herbs.",
			PrepTime:    "25 minutes",
			Servings:    4,
			Difficulty:  "easy",
			Ingredients: []string{
				"400g pasta",
				"4 large tomatoes, diced",
				"3 cloves garlic, minced",
				"1/4 cup olive oil",
				"Fresh basil leaves",
				"Salt and pepper to taste",
				"Parmesan cheese (optional)",
			},
			Instructions: []string{
				"Bring a large pot of salted water to boil and cook pasta according to package directions.",
				"While pasta cooks, heat olive oil in a large pan over medium heat.",
				"Add minced garlic and sauté for 1 minute until fragrant.",
				"Add diced tomatoes and cook for 8-10 minutes until they break down.",
				"Season with salt and pepper, then stir in torn basil leaves.",
				"Drain pasta and toss with the tomato sauce.",
				"Serve hot with grated Parmesan if desired.",
			},
			Tips: "Use the ripest tomatoes you can find for the best flavor. San Marzano tomatoes work exceptionally well.",
		},
	}
}
