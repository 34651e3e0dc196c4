package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/glowmart/internal/domain/user"
)

const (
	getUserByIDSQL = `SELECT id, username, email, phone, address, role
		FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT id, username, email, phone, address, role
		FROM users WHERE email = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns the identity for a user id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.Identity, error) {
	return r.get(ctx, getUserByIDSQL, id)
}

// GetByEmail returns the identity for an email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.Identity, error) {
	return r.get(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) get(ctx context.Context, sql string, arg any) (*user.Identity, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	ident, err := pgx.CollectExactlyOneRow(rows, scanIdentity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &ident, nil
}

func scanIdentity(row pgx.CollectableRow) (user.Identity, error) {
	var ident user.Identity
	err := row.Scan(
		&ident.UserID, &ident.Username, &ident.Email,
		&ident.Phone, &ident.Address, &ident.Role,
	)
	return ident, err
}
