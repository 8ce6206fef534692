package service

import (
	"context"
	"fmt"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository"
)

var (
	ErrUserNotFound   = repository.ErrUserNotFound
	ErrVendorNotFound = repository.ErrVendorNotFound
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	FindVendorByUserID(ctx context.Context, userID uint) (domain.Vendor, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetVendorByUserID(ctx context.Context, userID uint) (domain.Vendor, error) {
	vendor, err := s.repo.FindVendorByUserID(ctx, userID)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("s.repo.FindVendorByUserID -> %w", err)
	}

	return vendor, nil
}
