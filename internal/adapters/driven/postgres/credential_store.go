package postgres

import (
	"context"
	"database/sql"

	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements driven.CredentialStore using PostgreSQL.
// Each write is a single-row upsert, so the per-record atomicity the token
// lifecycle needs comes from the statement itself.
type CredentialStore struct {
	db *DB
}

// NewCredentialStore creates a new CredentialStore
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Get retrieves the credential for a user and provider
func (s *CredentialStore) Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error) {
	query := `
		SELECT user_id, provider, access_token_cipher, refresh_token_cipher,
		       token_expiry, provider_account_id, created_at, updated_at
		FROM calendar_credentials
		WHERE user_id = $1 AND provider = $2
	`
	return scanCredential(s.db.QueryRowContext(ctx, query, userID, string(provider)))
}

// Upsert writes the credential in one atomic statement
func (s *CredentialStore) Upsert(ctx context.Context, cred *domain.Credential) error {
	query := `
		INSERT INTO calendar_credentials
			(user_id, provider, access_token_cipher, refresh_token_cipher,
			 token_expiry, provider_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token_cipher = EXCLUDED.access_token_cipher,
			refresh_token_cipher = EXCLUDED.refresh_token_cipher,
			token_expiry = EXCLUDED.token_expiry,
			provider_account_id = EXCLUDED.provider_account_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		cred.UserID,
		string(cred.Provider),
		cred.AccessTokenCipher,
		cred.RefreshTokenCipher,
		cred.TokenExpiry,
		NullString(cred.ProviderAccountID),
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	return err
}

// Delete removes the credential (user disconnect)
func (s *CredentialStore) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	query := `DELETE FROM calendar_credentials WHERE user_id = $1 AND provider = $2`
	result, err := s.db.ExecContext(ctx, query, userID, string(provider))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListByUser returns all credentials a user holds
func (s *CredentialStore) ListByUser(ctx context.Context, userID string) ([]*domain.Credential, error) {
	query := `
		SELECT user_id, provider, access_token_cipher, refresh_token_cipher,
		       token_expiry, provider_account_id, created_at, updated_at
		FROM calendar_credentials
		WHERE user_id = $1
		ORDER BY provider
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []*domain.Credential
	for rows.Next() {
		var cred domain.Credential
		var accountID sql.NullString

		err := rows.Scan(
			&cred.UserID,
			&cred.Provider,
			&cred.AccessTokenCipher,
			&cred.RefreshTokenCipher,
			&cred.TokenExpiry,
			&accountID,
			&cred.CreatedAt,
			&cred.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if accountID.Valid {
			cred.ProviderAccountID = accountID.String
		}
		creds = append(creds, &cred)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return creds, nil
}

func scanCredential(row *sql.Row) (*domain.Credential, error) {
	var cred domain.Credential
	var accountID sql.NullString

	err := row.Scan(
		&cred.UserID,
		&cred.Provider,
		&cred.AccessTokenCipher,
		&cred.RefreshTokenCipher,
		&cred.TokenExpiry,
		&accountID,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		cred.ProviderAccountID = accountID.String
	}
	return &cred, nil
}
