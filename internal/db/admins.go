package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bizpulse/bizpulse/internal/services"
)

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*services.Admin, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, pass_hash FROM admins WHERE email = ?`, email)
	var a services.Admin
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PassHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &a, nil
}

// EnsureAdmin bootstraps the configured admin account. Re-running with a new
// password rotates the stored hash.
func (s *Store) EnsureAdmin(ctx context.Context, name, email string, passHash []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO admins (name, email, pass_hash) VALUES (?, ?, ?)
        ON CONFLICT(email) DO UPDATE SET name = excluded.name, pass_hash = excluded.pass_hash`,
		name, email, passHash)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
