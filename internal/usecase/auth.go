package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AuthUseCase trusts the identity the client sends. There is no token
// verification and no session.
type AuthUseCase struct {
	Users entity.UserRepositoryInterface
}

func NewAuthUseCase(users entity.UserRepositoryInterface) *AuthUseCase {
	return &AuthUseCase{Users: users}
}

func (uc *AuthUseCase) LoginWithGoogle(ctx context.Context, input GoogleUserInput) (*entity.User, error) {
	if strings.TrimSpace(input.Sub) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, validationError("user.sub and user.email are required")
	}

	user, err := uc.Users.FindByGoogleID(ctx, input.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, databaseError("failed to load user", err)
	}

	user = &entity.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Name:      strings.TrimSpace(input.Name),
		Avatar:    input.Picture,
		GoogleID:  input.Sub,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeConflict, Message: "email already linked to another account"}
		}
		return nil, databaseError("failed to create user", err)
	}
	return user, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.Users.FindByID(ctx, userID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, databaseError("failed to load user", err)
	}
	return user, nil
}

// EnsureDemoUser creates the fallback user that requests without an
// identity header act as.
func (uc *AuthUseCase) EnsureDemoUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.Users.FindByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, databaseError("failed to load demo user", err)
	}

	user = &entity.User{
		ID:        id,
		Email:     "demo@ligue-crm.local",
		Name:      "Demo User",
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		return nil, databaseError("failed to create demo user", err)
	}
	return user, nil
}
