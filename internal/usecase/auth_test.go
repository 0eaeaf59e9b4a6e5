package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestLoginWithGoogleReturnsExistingUser(t *testing.T) {
	users := new(MockUserRepository)
	existing := &entity.User{ID: "u-1", GoogleID: "g-1"}
	users.On("FindByGoogleID", mock.Anything, "g-1").Return(existing, nil)

	user, err := NewAuthUseCase(users).LoginWithGoogle(context.Background(), GoogleUserInput{Sub: "g-1", Email: "ana@example.com"})

	require.NoError(t, err)
	assert.Same(t, existing, user)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginWithGoogleCreatesUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByGoogleID", mock.Anything, "g-2").Return(nil, entity.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := NewAuthUseCase(users).LoginWithGoogle(context.Background(), GoogleUserInput{
		Sub: "g-2", Email: "Bia@Example.com", Name: "Bia", Picture: "https://img.example.com/bia.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "bia@example.com", user.Email)
	assert.Equal(t, "g-2", user.GoogleID)
	assert.NotEmpty(t, user.ID)
}

func TestLoginWithGoogleRequiresSubject(t *testing.T) {
	_, err := NewAuthUseCase(new(MockUserRepository)).LoginWithGoogle(context.Background(), GoogleUserInput{Email: "a@b.c"})
	assert.Equal(t, CodeValidation, domainCode(err))
}

func TestEnsureDemoUserIsIdempotent(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, "demo").Return(nil, entity.ErrUserNotFound).Once()
	users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil).Once()
	uc := NewAuthUseCase(users)

	user, err := uc.EnsureDemoUser(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", user.ID)

	users.On("FindByID", mock.Anything, "demo").Return(user, nil).Once()
	again, err := uc.EnsureDemoUser(context.Background(), "demo")
	require.NoError(t, err)
	assert.Same(t, user, again)
	users.AssertNumberOfCalls(t, "Create", 1)
}
