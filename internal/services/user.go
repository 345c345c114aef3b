package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/requestdata"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"
)

type UserService interface {
	Me(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, name, avatar *string) (*types.User, error)
	CompleteOnboarding(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

// currentUserID pulls the authenticated identity stamped by the auth
// middleware. Every protected service call starts here.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: no authenticated user in context", ErrUnauthorized)
	}
	return rd.UserID, nil
}

func (us *userService) Me(ctx context.Context) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return users[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, name, avatar *string) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		fields["name"] = trimmed
	}
	if avatar != nil {
		fields["avatar"] = *avatar
	}
	if len(fields) == 0 {
		return us.Me(ctx)
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return us.Me(ctx)
}

func (us *userService) CompleteOnboarding(ctx context.Context) (*types.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]any{"onboarding_completed": true}); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return us.Me(ctx)
}
