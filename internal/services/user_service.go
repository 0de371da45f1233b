package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cafe/internal/cleanup"
	"cafe/internal/models"
	"cafe/internal/repositories"
	"cafe/pkg/imagestore"
)

// UserUpdate carries the profile fields a user may change. Nil fields are left as they are.
// The avatar is only changed through UploadAvatar.
type UserUpdate struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Addresses *[]string `json:"addresses"`
}

// UserService manages accounts after registration.
type UserService struct {
	repo    repositories.UserRepository
	images  imagestore.Uploader
	cleanup cleanup.Queue
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, images imagestore.Uploader, queue cleanup.Queue) *UserService {
	return &UserService{
		repo:    repo,
		images:  images,
		cleanup: queue,
	}
}

// GetAllUsers lists every account.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// GetUserByUsername fetches one account.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// UpdateProfile applies a partial update to username's profile.
func (s *UserService) UpdateProfile(ctx context.Context, username string, update UserUpdate) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&user.FirstName, update.FirstName)
	assign(&user.LastName, update.LastName)
	assign(&user.Email, update.Email)
	assign(&user.Phone, update.Phone)
	if update.Addresses != nil {
		user.Addresses = models.StringList(*update.Addresses)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Its avatar, if any, is queued for deletion
// first; a queue failure does not stop the delete.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.enqueueCleanup(ctx, user.AvatarPublicID)
	return s.repo.Delete(ctx, id)
}

// SetLocked locks or unlocks an account and returns it.
func (s *UserService) SetLocked(ctx context.Context, id string, locked bool) (*models.User, error) {
	if err := s.repo.SetLocked(ctx, id, locked); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !checkPassword(user.Password, currentPassword) {
		return validationError("current password is incorrect")
	}
	if newPassword == "" {
		return validationError("new password is required")
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.repo.Update(ctx, user)
}

// UploadAvatar stores a new avatar image, saves it on the profile and queues
// the previously stored avatar for deletion. Only ids this service recorded
// are ever queued.
func (s *UserService) UploadAvatar(ctx context.Context, username, imageBase64 string) (imagestore.Asset, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return imagestore.Asset{}, validationError("imageBase64 is required")
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return imagestore.Asset{}, err
	}

	asset, err := s.images.UploadBase64(ctx, imageBase64, "avatars")
	if err != nil {
		return imagestore.Asset{}, fmt.Errorf("failed to upload avatar: %w", err)
	}
	previous := user.AvatarPublicID
	user.Avatar = asset.URL
	user.AvatarPublicID = asset.PublicID
	if err := s.repo.Update(ctx, user); err != nil {
		s.enqueueCleanup(ctx, asset.PublicID)
		return imagestore.Asset{}, fmt.Errorf("failed to save avatar of %s: %w", username, err)
	}
	if previous != asset.PublicID {
		s.enqueueCleanup(ctx, previous)
	}
	return asset, nil
}

// EnsureAdmin creates an admin account when username is set and does not exist yet.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{Username: username, Password: hashed, Role: models.RoleAdmin}
	if err := s.repo.Create(ctx, admin); err != nil && !errors.Is(err, repositories.ErrConflict) {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Printf("Admin account %s is ready", username)
	return nil
}

func (s *UserService) enqueueCleanup(ctx context.Context, publicID string) {
	if publicID == "" || s.cleanup == nil {
		return
	}
	if err := s.cleanup.Enqueue(ctx, publicID); err != nil {
		log.Printf("Failed to queue cleanup of %s: %v", publicID, err)
	}
}
