package repository

import (
	"context"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
)

// SandboxRepository works on the minimal users table of the scratch database
type SandboxRepository interface {
	List(ctx context.Context) ([]model.SandboxUser, error)
	Create(ctx context.Context, username, email string) error
	Delete(ctx context.Context, id int64) error
}

type sandboxRepository struct {
	db database.Querier
}

func NewSandboxRepository(db database.Querier) SandboxRepository {
	return &sandboxRepository{db: db}
}

func (r *sandboxRepository) List(ctx context.Context) ([]model.SandboxUser, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sandbox users: %w", err)
	}
	defer rows.Close()

	users := []model.SandboxUser{}
	for rows.Next() {
		var u model.SandboxUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan sandbox user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sandbox users: %w", err)
	}
	return users, nil
}

func (r *sandboxRepository) Create(ctx context.Context, username, email string) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO users (username, email) VALUES ($1, $2)`, username, email); err != nil {
		return fmt.Errorf("failed to create sandbox user: %w", err)
	}
	return nil
}

// Delete is idempotent: removing a missing id is not an error
func (r *sandboxRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sandbox user: %w", err)
	}
	return nil
}
