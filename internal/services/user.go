package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mapleroad/mapleroad-backend/internal/apierr"
	"github.com/mapleroad/mapleroad-backend/internal/logger"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

type UserCreateInput struct {
	Email    string
	Password string
}

// UserService only bootstraps user rows so entries, progress and metrics
// have an ownership root. Sessions and token auth are handled elsewhere.
type UserService interface {
	Create(ctx context.Context, tx *gorm.DB, input UserCreateInput) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) Create(ctx context.Context, tx *gorm.DB, input UserCreateInput) (*types.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, tx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	row := &types.User{
		ID:             uuid.NewString(),
		Email:          input.Email,
		HashedPassword: string(hash),
	}
	if err := s.userRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return row, nil
}
