package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/validation"
)

// UserInput carries the writable user fields. Password is optional; nil
// leaves an existing password unchanged.
type UserInput struct {
	Email    string
	Name     string
	Password *string
}

type UserService struct {
	userRepository repository.UserRepository
	goalRepository repository.GoalRepository
	fileService    *FileService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	goalRepository repository.GoalRepository,
	fileService *FileService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		goalRepository: goalRepository,
		fileService:    fileService,
		emailService:   emailService,
	}
}

func validateUserInput(in *UserInput) error {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	err := validation.ValidateEmail(in.Email)
	if err != nil {
		return err
	}
	err = validation.ValidateName(in.Name)
	if err != nil {
		return err
	}
	if in.Password != nil {
		err = validation.ValidatePassword(*in.Password)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	err := validateUserInput(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     in.Email,
		Name:      in.Name,
		Progress:  model.ProgressLog{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if in.Password != nil {
		hashedPassword, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = &hashedPassword
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Goals = []*model.Goal{}
	return user, nil
}

// ByID returns the user with their goals and avatar URL populated.
func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepository.Goals(ctx, id, repository.GoalSortRecent)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	user.Goals = goals
	user.AvatarURL = s.fileService.URL(ctx, user.AvatarPath)

	return user, nil
}

func (s *UserService) Users(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepository.Users(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.Goals = []*model.Goal{}
		u.AvatarURL = s.fileService.URL(ctx, u.AvatarPath)
	}
	return users, nil
}

// Update replaces email and name, and the password when one is given.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*model.User, error) {
	err := validateUserInput(&in)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = in.Email
	user.Name = in.Name
	user.UpdatedAt = time.Now().UTC()

	if in.Password != nil {
		hashedPassword, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = &hashedPassword
	}

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.ByID(ctx, id)
}

// Delete removes the user record. Goals are left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	if user.AvatarPath != "" && s.fileService.Enabled() {
		err = s.fileService.Delete(ctx, user.AvatarPath)
		if err != nil {
			slog.Warn("failed to delete avatar", "error", err, "user_id", id, "path", user.AvatarPath)
		}
	}

	err = s.userRepository.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "error", err, "user_id", id)
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}

// UploadAvatar validates and stores a new avatar, replacing any previous one.
func (s *UserService) UploadAvatar(ctx context.Context, id string, header *multipart.FileHeader) (*model.User, error) {
	if !s.fileService.Enabled() {
		return nil, ErrStorageDisabled
	}

	err := validation.ValidateFile(header, validation.AvatarConstraints)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	contentType, err := sniffContentType(file)
	if err != nil {
		return nil, err
	}

	storagePath, err := s.fileService.UploadAvatar(ctx, id, file, header.Filename, contentType)
	if err != nil {
		return nil, err
	}

	oldPath := user.AvatarPath
	user.AvatarPath = storagePath
	user.UpdatedAt = time.Now().UTC()

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		// If DB update fails, try to cleanup the uploaded file
		delErr := s.fileService.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	if oldPath != "" {
		err = s.fileService.Delete(ctx, oldPath)
		if err != nil {
			slog.Warn("failed to delete old avatar", "error", err, "path", oldPath)
		}
	}

	user.Goals = []*model.Goal{}
	user.AvatarURL = s.fileService.URL(ctx, user.AvatarPath)
	return user, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, id string) error {
	if !s.fileService.Enabled() {
		return ErrStorageDisabled
	}

	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	if user.AvatarPath == "" {
		return nil
	}

	err = s.fileService.Delete(ctx, user.AvatarPath)
	if err != nil {
		slog.Warn("failed to delete avatar from storage", "error", err, "path", user.AvatarPath)
	}

	user.AvatarPath = ""
	user.UpdatedAt = time.Now().UTC()

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	return nil
}

func sniffContentType(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, _ := file.Read(buffer)

	_, err := file.Seek(0, 0)
	if err != nil {
		return "", fmt.Errorf("failed to reset file pointer: %w", err)
	}

	return http.DetectContentType(buffer[:n]), nil
}
