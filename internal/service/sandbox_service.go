package service

import (
	"context"

	"school_management/internal/database"
	"school_management/internal/model"
	"school_management/internal/repository"
)

// SandboxService exposes the scratch database used to check connectivity
type SandboxService interface {
	ListUsers(ctx context.Context) ([]model.SandboxUser, error)
	CreateUser(ctx context.Context, username, email string) error
	DeleteUser(ctx context.Context, id int64) error
}

type sandboxService struct {
	db *database.Provider
}

func NewSandboxService(db *database.Provider) SandboxService {
	return &sandboxService{db: db}
}

func (s *sandboxService) ListUsers(ctx context.Context) ([]model.SandboxUser, error) {
	var users []model.SandboxUser
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		var err error
		users, err = repository.NewSandboxRepository(q).List(ctx)
		return err
	})
	return users, err
}

func (s *sandboxService) CreateUser(ctx context.Context, username, email string) error {
	return s.db.WithScope(ctx, func(q database.Querier) error {
		return repository.NewSandboxRepository(q).Create(ctx, username, email)
	})
}

func (s *sandboxService) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithScope(ctx, func(q database.Querier) error {
		return repository.NewSandboxRepository(q).Delete(ctx, id)
	})
}
