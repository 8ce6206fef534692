package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) SignupVendor(ctx context.Context, vendor domain.Vendor) (domain.User, error) {
	hashedPassword, err := hashPassword(vendor.User.Password)
	if err != nil {
		return domain.User{}, err
	}
	vendor.User.Password = hashedPassword
	vendor.User.Role = domain.RoleVendor

	created, err := s.repo.CreateVendor(ctx, vendor)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.CreateVendor -> %w", err)
	}

	return created.User, nil
}

func (s *AuthService) SignupAdmin(ctx context.Context, user domain.User) (domain.User, error) {
	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hashedPassword
	user.Role = domain.RoleAdmin

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
