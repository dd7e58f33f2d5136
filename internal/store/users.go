package store

import (
	"context"

	"gorm.io/gorm"

	"aiResume/internal/database"
)

// Users 是 users 表的仓储。
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (u *Users) Create(ctx context.Context, user *database.User) error {
	return translate(u.db.WithContext(ctx).Create(user).Error)
}

func (u *Users) FindByID(ctx context.Context, id string) (*database.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var user database.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	var user database.User
	if err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Exists 判断邮箱或用户名是否已被占用。
func (u *Users) Exists(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&database.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*database.User, error) {
	var user database.User
	if err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
