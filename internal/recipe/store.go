package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore caches model responses in PostgreSQL. Detected ingredients are keyed
// by the hash of the encoded image, recipe sets by the hash of the prompt. Rows older
// than ttl read as misses; a zero ttl never expires.
type PostgresStore struct {
	db  *sqlx.DB
	ttl time.Duration
	log *zap.Logger
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(dataSourceName string, ttl time.Duration, log *zap.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS detected_ingredients (
		image_hash TEXT PRIMARY KEY,
		ingredients JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create detected_ingredients table: %w", err)
	}

	schema = `
	CREATE TABLE IF NOT EXISTS recipe_sets (
		prompt_hash TEXT PRIMARY KEY,
		recipes JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipe_sets table: %w", err)
	}

	return &PostgresStore{db: db, ttl: ttl, log: log}, nil
}

// freshClause filters out rows older than $2 seconds; $2 <= 0 keeps every row.
const freshClause = " AND ($2::float8 <= 0 OR created_at > now() - $2::float8 * interval '1 second')"

func ttlSeconds(ttl time.Duration) float64 {
	if ttl <= 0 {
		return 0
	}
	return ttl.Seconds()
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetIngredients returns the cached ingredient names for an image hash, or nil when absent.
func (s *PostgresStore) GetIngredients(ctx context.Context, imageHash string) ([]string, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, "SELECT ingredients FROM detected_ingredients WHERE image_hash = $1"+freshClause, imageHash, ttlSeconds(s.ttl))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredients by hash: %w", err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	s.log.Debug("ingredient cache hit", zap.String("image_hash", imageHash), zap.Int("count", len(names)))
	return names, nil
}

// SaveIngredients stores the detected ingredient names for an image hash.
func (s *PostgresStore) SaveIngredients(ctx context.Context, imageHash string, names []string) error {
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO detected_ingredients (image_hash, ingredients) VALUES ($1, $2) ON CONFLICT (image_hash) DO UPDATE SET ingredients = $2, created_at = now()",
		imageHash,
		raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save ingredients: %w", err)
	}
	return nil
}

// GetRecipes returns the cached recipe set for a prompt hash, or nil when absent.
func (s *PostgresStore) GetRecipes(ctx context.Context, promptHash string) ([]Recipe, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, "SELECT recipes FROM recipe_sets WHERE prompt_hash = $1"+freshClause, promptHash, ttlSeconds(s.ttl))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipes by hash: %w", err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipes: %w", err)
	}
	s.log.Debug("recipe cache hit", zap.String("prompt_hash", promptHash), zap.Int("count", len(recipes)))
	return recipes, nil
}

// SaveRecipes stores a recipe set for a prompt hash.
func (s *PostgresStore) SaveRecipes(ctx context.Context, promptHash string, recipes []Recipe) error {
	raw, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO recipe_sets (prompt_hash, recipes) VALUES ($1, $2) ON CONFLICT (prompt_hash) DO UPDATE SET recipes = $2, created_at = now()",
		promptHash,
		raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	return nil
}
