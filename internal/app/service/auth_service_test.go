package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *mockFileStorage, *testEnv) {
	env := setupTestEnv(t)
	files := new(mockFileStorage)
	return NewAuthService(env.users, env.hasher, files, "avatars"), files, env
}

func validRegistration(email string) RegisterInput {
	return RegisterInput{
		FirstName:       "Claire",
		LastName:        "Martin",
		Email:           email,
		Password:        "motdepasse",
		ConfirmPassword: "motdepasse",
	}
}

func TestAuthService_Register(t *testing.T) {
	authService, _, env := setupAuthServiceTest(t)
	ctx := context.Background()

	user, err := authService.Register(ctx, validRegistration("  Claire@Example.COM "))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "claire@example.com", user.Email)
	assert.Equal(t, model.DefaultAvatar, user.Avatar)
	assert.NotEqual(t, "motdepasse", user.PasswordHash)
	assert.True(t, env.hasher.Verify(user.PasswordHash, "motdepasse"))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	authService, _, env := setupAuthServiceTest(t)
	ctx := context.Background()

	first, err := authService.Register(ctx, validRegistration("claire@example.com"))
	require.NoError(t, err)

	second := validRegistration("CLAIRE@example.com")
	second.FirstName = "Imposteur"
	_, err = authService.Register(ctx, second)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, ErrConflict)

	stored, err := env.users.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Claire", stored.FirstName)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"blank first name", func(in *RegisterInput) { in.FirstName = "  " }, ErrMissingFields},
		{"blank email", func(in *RegisterInput) { in.Email = "" }, ErrMissingFields},
		{"blank password", func(in *RegisterInput) { in.Password = ""; in.ConfirmPassword = "" }, ErrMissingFields},
		{"mismatched confirmation", func(in *RegisterInput) { in.ConfirmPassword = "autre" }, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration("claire@example.com")
			tt.mutate(&input)

			_, err := authService.Register(ctx, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _, env := setupAuthServiceTest(t)
	ctx := context.Background()
	env.user(t, "claire@example.com", "motdepasse")

	user, err := authService.Login(ctx, " Claire@Example.com", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "claire@example.com", user.Email)

	_, wrongPassword := authService.Login(ctx, "claire@example.com", "mauvais")
	_, unknownUser := authService.Login(ctx, "personne@example.com", "motdepasse")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "uniform message")
	assert.ErrorIs(t, wrongPassword, ErrAuth)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, files, env := setupAuthServiceTest(t)
	ctx := context.Background()
	claire := env.user(t, "claire@example.com", "secret")
	env.user(t, "paul@example.com", "secret")

	t.Run("email taken by another user", func(t *testing.T) {
		_, err := authService.UpdateProfile(ctx, claire.ID, ProfileInput{Email: "PAUL@example.com"})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)

		stored, err := env.users.FindByID(ctx, claire.ID)
		require.NoError(t, err)
		assert.Equal(t, "claire@example.com", stored.Email)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		user, err := authService.UpdateProfile(ctx, claire.ID, ProfileInput{FirstName: "Clara", Email: "claire@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Clara", user.FirstName)
		assert.Equal(t, "Martin", user.LastName)
	})

	t.Run("allowed avatar stored under user namespace", func(t *testing.T) {
		files.On("Save", mock.Anything, "avatars", "user_1_ma_photo.png", mock.Anything, "image/png").Return(nil).Once()

		user, err := authService.UpdateProfile(ctx, claire.ID, ProfileInput{
			Avatar: &ImageUpload{Filename: "ma photo.png", ContentType: "image/png", Body: strings.NewReader("png")},
		})
		require.NoError(t, err)
		assert.Equal(t, "avatars/user_1_ma_photo.png", user.Avatar)
		files.AssertExpectations(t)
	})

	t.Run("disallowed avatar silently ignored", func(t *testing.T) {
		user, err := authService.UpdateProfile(ctx, claire.ID, ProfileInput{
			LastName: "Dupont",
			Avatar:   &ImageUpload{Filename: "virus.exe", Body: strings.NewReader("MZ")},
		})
		require.NoError(t, err)
		assert.Equal(t, "avatars/user_1_ma_photo.png", user.Avatar, "prior avatar kept")
		assert.Equal(t, "Dupont", user.LastName)
		files.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		files.On("Save", mock.Anything, "avatars", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := authService.UpdateProfile(ctx, claire.ID, ProfileInput{
			Avatar: &ImageUpload{Filename: "photo.jpg", Body: strings.NewReader("jpg")},
		})
		assert.EqualError(t, err, "disk full")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := authService.UpdateProfile(ctx, 9999, ProfileInput{FirstName: "X"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
