package repository

import (
	"context"
	"errors"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, avatar_path, full_name, user_role,
	phone_number, address, gender, created_date, modify_date`

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db database.Querier) UserRepository {
	return &userRepository{db: db}
}

// userDest returns scan targets in userColumns order followed by any extra targets
func userDest(u *model.User, extra ...any) []any {
	dest := []any{
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar, &u.FullName, &u.Role,
		&u.Phone, &u.Address, &u.Gender, &u.CreatedAt, &u.UpdatedAt,
	}
	return append(dest, extra...)
}

// Create inserts a new user and fills in the generated id and timestamps
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, avatar_path, full_name, user_role, phone_number, address, gender)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_date, modify_date`
	err := r.db.QueryRow(ctx, sql,
		user.Username, user.Email, user.PasswordHash, user.Avatar, user.FullName,
		user.Role, user.Phone, user.Address, user.Gender,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translatePgError(err))
	}
	return nil
}

// FindByEmail retrieves a user by email, nil when absent
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(userDest(user)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by id, nil when absent
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(userDest(user)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List returns every user
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	return r.queryUsers(ctx, sql)
}

// ListByRole returns users whose role matches case-insensitively
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE UPPER(user_role) = $1 ORDER BY id`
	return r.queryUsers(ctx, sql, model.NormalizeRole(role))
}

func (r *userRepository) queryUsers(ctx context.Context, sql string, args ...any) ([]model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(userDest(&u)...); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update overwrites the profile columns of an existing user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	sql := `UPDATE users
            SET username = $1, email = $2, password_hash = $3, avatar_path = $4, full_name = $5,
                phone_number = $6, address = $7, gender = $8, modify_date = NOW()
            WHERE id = $9 RETURNING modify_date`
	err := r.db.QueryRow(ctx, sql,
		user.Username, user.Email, user.PasswordHash, user.Avatar, user.FullName,
		user.Phone, user.Address, user.Gender, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %d not found for update: %w", user.ID, err)
		}
		return fmt.Errorf("failed to update user: %w", translatePgError(err))
	}
	return nil
}
