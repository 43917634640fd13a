package repository

import (
	"context"
	"slices"

	"github.com/amirfagh/justeat/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepository only talks to the users table.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Update(ctx context.Context, uid string, updates map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&entity.User{}).Where("uid = ?", uid).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*entity.User, error) {
	var user entity.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AppendOrder adds orderID to the user's order list unless it is already there.
// A missing user fails the surrounding transaction.
func (r *UserRepository) AppendOrder(tx *gorm.DB, uid, orderID string) error {
	var user entity.User
	if err := tx.Select("uid", "orders").Where("uid = ?", uid).First(&user).Error; err != nil {
		return err
	}
	if slices.Contains(user.Orders, orderID) {
		return nil
	}
	orders := append(slices.Clone([]string(user.Orders)), orderID)
	return tx.Model(&entity.User{}).
		Where("uid = ?", uid).
		Update("orders", datatypes.JSONSlice[string](orders)).Error
}
