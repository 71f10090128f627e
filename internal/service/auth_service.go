package service

import (
	"context"
	"errors"
	"fmt"

	"school_management/internal/database"
	"school_management/internal/model"
	"school_management/internal/repository"
	"school_management/internal/utils"

	"github.com/rs/zerolog"
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
}

type authService struct {
	db      *database.Provider
	jwtUtil *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(db *database.Provider, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		db:      db,
		jwtUtil: jwtUtil,
	}
}

// Login checks the credentials and issues a token carrying the user profile
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	var user *model.User
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		u, err := repository.NewUserRepository(q).FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(ClaimsFor(user))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Register creates a user with the default role and logs them in
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	err = s.db.WithScope(ctx, func(q database.Querier) error {
		users := repository.NewUserRepository(q)
		existing, err := users.FindByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			return ErrUserAlreadyExists
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return ErrUserAlreadyExists
			}
			return fmt.Errorf("failed to create user in repository: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user registered")

	token, err := s.jwtUtil.GenerateToken(ClaimsFor(user))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Profile re-reads the user named by a token
func (s *authService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	var user *model.User
	err := s.db.WithScope(ctx, func(q database.Querier) error {
		u, err := repository.NewUserRepository(q).FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if u == nil {
			return ErrUserNotFound
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ClaimsFor copies the public profile of u into token claims
func ClaimsFor(u *model.User) utils.Claims {
	return utils.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Name:     u.Username,
		Email:    u.Email,
		Avatar:   deref(u.Avatar),
		FullName: deref(u.FullName),
		Role:     u.Role,
		Phone:    deref(u.Phone),
		Address:  deref(u.Address),
		Gender:   deref(u.Gender),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
