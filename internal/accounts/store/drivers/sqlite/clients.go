package sqlite

import (
	"context"
	"database/sql"

	"github.com/meridianapps/accounts/internal/accounts/domain"
)

type clientsRepo struct {
	db *sql.DB
}

func (r *clientsRepo) FindByID(ctx context.Context, id int64) (domain.Client, error) {
	var c domain.Client
	err := r.db.QueryRowContext(ctx,
		`SELECT id, secret, official FROM oauth_client WHERE id = ?`, id,
	).Scan(&c.ID, &c.Secret, &c.Official)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) Insert(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO oauth_client (id, secret, official) VALUES (?, ?, ?)`,
		c.ID, c.Secret, c.Official)
	return err
}
