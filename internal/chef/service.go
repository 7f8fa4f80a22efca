// Package chef drives the two model round trips: identifying ingredients in a photo
// and drafting recipes from an ingredient list.
package chef

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"pantrychef/internal/imagedata"
	"pantrychef/internal/recipe"
)

// Validation errors.
var (
	ErrNoImage       = errors.New("no image provided")
	ErrNoIngredients = errors.New("no ingredients provided")
)

// Model defines the interface for interacting with the external model.
type Model interface {
	DescribeImage(ctx context.Context, instruction, image string, maxTokens int) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

// Cache defines the optional response cache. Getters return nil on a miss.
type Cache interface {
	GetIngredients(ctx context.Context, imageHash string) ([]string, error)
	SaveIngredients(ctx context.Context, imageHash string, names []string) error
	GetRecipes(ctx context.Context, promptHash string) ([]recipe.Recipe, error)
	SaveRecipes(ctx context.Context, promptHash string, recipes []recipe.Recipe) error
}

// Service runs the vision and recipe requests. Every model call is attempted once.
type Service struct {
	model Model
	cache Cache
	log   *zap.Logger
}

// NewService creates a Service. cache may be nil.
func NewService(model Model, cache Cache, log *zap.Logger) *Service {
	return &Service{model: model, cache: cache, log: log}
}

// IdentifyIngredients asks the model which ingredients are visible in image, a data URI.
func (s *Service) IdentifyIngredients(ctx context.Context, image string) Outcome[[]string] {
	if strings.TrimSpace(image) == "" {
		return invalid[[]string](ErrNoImage)
	}

	imageHash := imagedata.Hash(image)
	if s.cache != nil {
		names, err := s.cache.GetIngredients(ctx, imageHash)
		if err != nil {
			s.log.Warn("ingredient cache lookup failed", zap.Error(err))
		} else if names != nil {
			return success(names)
		}
	}

	text, err := s.model.DescribeImage(ctx, VisionInstruction, image, VisionMaxTokens)
	if err != nil {
		s.log.Error("analyzing image failed", zap.String("image_hash", imageHash), zap.Error(err))
		return failure[[]string](err)
	}

	names := ParseIngredientLines(text)
	s.log.Info("ingredients identified", zap.String("image_hash", imageHash), zap.Int("count", len(names)))

	if s.cache != nil && len(names) > 0 {
		if err := s.cache.SaveIngredients(ctx, imageHash, names); err != nil {
			s.log.Warn("failed to cache ingredients", zap.Error(err))
		}
	}
	return success(names)
}

// SuggestRecipes asks the model for recipes that use the given ingredients.
func (s *Service) SuggestRecipes(ctx context.Context, ingredients []recipe.Ingredient) Outcome[[]recipe.Recipe] {
	if len(ingredients) == 0 {
		return invalid[[]recipe.Recipe](ErrNoIngredients)
	}

	prompt := BuildRecipePrompt(ingredients)
	promptHash := imagedata.Hash(prompt)
	if s.cache != nil {
		recipes, err := s.cache.GetRecipes(ctx, promptHash)
		if err != nil {
			s.log.Warn("recipe cache lookup failed", zap.Error(err))
		} else if recipes != nil {
			return success(recipes)
		}
	}

	content, err := s.model.CompleteJSON(ctx, RecipeSystemPrompt, prompt, RecipeMaxTokens)
	if err != nil {
		s.log.Error("generating recipes failed", zap.Int("ingredients", len(ingredients)), zap.Error(err))
		return failure[[]recipe.Recipe](err)
	}

	recipes, err := ParseRecipes(content)
	if err != nil {
		s.log.Error("parsing recipes failed", zap.Error(err))
		return failure[[]recipe.Recipe](err)
	}
	s.log.Info("recipes generated", zap.Int("ingredients", len(ingredients)), zap.Int("recipes", len(recipes)))

	if s.cache != nil && len(recipes) > 0 {
		if err := s.cache.SaveRecipes(ctx, promptHash, recipes); err != nil {
			s.log.Warn("failed to cache recipes", zap.Error(err))
		}
	}
	return success(recipes)
}
