package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/storage"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/joelyk/maison-du-parfum/pkg/util"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Avatar    *ImageUpload
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	hasher       *util.PasswordHasher
	files        storage.FileStorage
	avatarFolder string
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher *util.PasswordHasher,
	files storage.FileStorage,
	avatarFolder string,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		files:        files,
		avatarFolder: avatarFolder,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := normalizeEmail(input.Email)

	logger.Info("Attempting user registration", logger.Fields{
		"email": email,
	})

	if firstName == "" || lastName == "" || email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		logger.Warn("Registration failed: email already exists", logger.Fields{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Avatar:       model.DefaultAvatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("User registered successfully", logger.Fields{
		"user_id": user.ID,
	})
	return user, nil
}

// Login reports ErrInvalidCredentials for both unknown emails and wrong passwords.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", logger.Fields{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		logger.Warn("Login failed: password mismatch", logger.Fields{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("User logged in", logger.Fields{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites names and email when given. Avatars with a disallowed extension are ignored.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(input.LastName); v != "" {
		user.LastName = v
	}
	if email := normalizeEmail(input.Email); email != "" && email != user.Email {
		taken, err := s.userRepo.EmailTakenByOther(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			logger.Warn("Profile update rejected: email in use", logger.Fields{
				"user_id": user.ID,
			})
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
	}

	if avatar := input.Avatar; avatar != nil && util.AllowedImage(avatar.Filename) {
		filename := util.SecureFilename(fmt.Sprintf("user_%d_%s", user.ID, avatar.Filename))
		if err := s.files.Save(ctx, s.avatarFolder, filename, avatar.Body, avatar.ContentType); err != nil {
			logger.Error("Failed to store avatar", err, logger.Fields{
				"user_id": user.ID,
			})
			return nil, err
		}
		user.Avatar = path.Join(s.avatarFolder, filename)
	} else if avatar != nil {
		logger.Warn("Avatar ignored: extension not allowed", logger.Fields{
			"user_id":  user.ID,
			"filename": avatar.Filename,
		})
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("Profile updated", logger.Fields{
		"user_id": user.ID,
	})
	return user, nil
}
