package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/shutterboard/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add stores the hash of token under name
func (r *APIKeyRepository) Add(ctx context.Context, name, token string) (*repository.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" || token == "" {
		return nil, repository.ErrInvalidInput
	}

	key := &repository.APIKey{
		ID:        uuid.NewString(),
		Name:      name,
		TokenHash: HashToken(token),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, name, key_hash, created_at) VALUES (?, ?, ?, ?)`,
		key.ID, key.Name, key.TokenHash, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: api key %q", repository.ErrConflict, name)
		}
		return nil, fmt.Errorf("failed to add api key: %w", err)
	}
	return key, nil
}

// Resolve returns the key name for token and stamps last_used
func (r *APIKeyRepository) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", repository.ErrNotFound
	}
	hash := HashToken(token)

	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM api_keys WHERE key_hash = ?`, hash).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash,
	); err != nil {
		return "", fmt.Errorf("failed to stamp api key: %w", err)
	}
	return name, nil
}

// HashToken returns the hex SHA-256 of a raw bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
