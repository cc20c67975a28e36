package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CredentialStore keeps one row per (scope_key, field) pair in the
// social_credentials table.
type CredentialStore struct {
	db   *bun.DB
	repo repository.Repository[*credentialRecord]
}

func NewCredentialStore(db *bun.DB) (*CredentialStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*credentialRecord](db, credentialHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid credential repository wiring: %w", err)
		}
	}
	return &CredentialStore{db: db, repo: repo}, nil
}

func (s *CredentialStore) Get(ctx context.Context, scopeKey string, field string) (string, error) {
	if s == nil || s.repo == nil {
		return "", fmt.Errorf("sqlstore: credential store is not configured")
	}
	scopeKey, field, err := normalizeCredentialKey(scopeKey, field)
	if err != nil {
		return "", err
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("scope_key", "=", scopeKey),
		repository.SelectBy("field", "=", field),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	return records[0].Value, nil
}

// Set creates or overwrites the value of field under scopeKey.
func (s *CredentialStore) Set(ctx context.Context, scopeKey string, field string, value string) error {
	if s == nil || s.repo == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	scopeKey, field, err := normalizeCredentialKey(scopeKey, field)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, updateErr := tx.NewUpdate().
			Model((*credentialRecord)(nil)).
			Set("value = ?", value).
			Set("updated_at = ?", now).
			Where("scope_key = ?", scopeKey).
			Where("field = ?", field).
			Exec(ctx)
		if updateErr != nil {
			return updateErr
		}
		if affected, rowsErr := res.RowsAffected(); rowsErr == nil && affected > 0 {
			return nil
		}

		_, createErr := s.repo.CreateTx(ctx, tx, &credentialRecord{
			ID:        uuid.NewString(),
			ScopeKey:  scopeKey,
			Field:     field,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return createErr
	})
}

// Remove deletes field under scopeKey. Removing a missing entry is not an
// error.
func (s *CredentialStore) Remove(ctx context.Context, scopeKey string, field string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: credential store is not configured")
	}
	scopeKey, field, err := normalizeCredentialKey(scopeKey, field)
	if err != nil {
		return err
	}
	_, err = s.db.NewDelete().
		Model((*credentialRecord)(nil)).
		Where("scope_key = ?", scopeKey).
		Where("field = ?", field).
		Exec(ctx)
	return err
}

// ScopeKeys lists every scope key holding at least one value.
func (s *CredentialStore) ScopeKeys(ctx context.Context) ([]string, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: credential store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("scope_key ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(records))
	seen := map[string]struct{}{}
	for _, record := range records {
		if _, ok := seen[record.ScopeKey]; ok {
			continue
		}
		seen[record.ScopeKey] = struct{}{}
		out = append(out, record.ScopeKey)
	}
	return out, nil
}

func normalizeCredentialKey(scopeKey string, field string) (string, string, error) {
	scopeKey = strings.TrimSpace(scopeKey)
	field = strings.TrimSpace(field)
	if scopeKey == "" {
		return "", "", fmt.Errorf("sqlstore: credential scope key is required")
	}
	if field == "" {
		return "", "", fmt.Errorf("sqlstore: credential field is required")
	}
	return scopeKey, field, nil
}
