package repository

import (
	"context"
	"fmt"

	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrVendorNotFound  = dao.ErrVendorNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	InsertVendor(ctx context.Context, vendor dao.Vendor) (dao.Vendor, error)
	FindVendorByUserID(ctx context.Context, userID uint) (dao.Vendor, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	user, err := r.dao.Insert(ctx, r.domainToDao(vendor.User))
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	created, err := r.dao.InsertVendor(ctx, dao.Vendor{
		UserID:   user.ID,
		ShopName: vendor.ShopName,
		Bio:      vendor.Bio,
	})
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.InsertVendor -> %w", err)
	}

	return domain.Vendor{
		User:     r.daoToDomain(user),
		ShopName: created.ShopName,
		Bio:      created.Bio,
	}, nil
}

func (r *UserRepository) FindVendorByUserID(ctx context.Context, userID uint) (domain.Vendor, error) {
	vendor, err := r.dao.FindVendorByUserID(ctx, userID)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.FindVendorByUserID -> %w", err)
	}

	user, err := r.dao.FindByID(ctx, userID)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return domain.Vendor{
		User:     r.daoToDomain(user),
		ShopName: vendor.ShopName,
		Bio:      vendor.Bio,
	}, nil
}
