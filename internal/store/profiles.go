package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"aiResume/internal/database"
)

// Profiles 是 profiles 表的仓储。
type Profiles struct {
	db *gorm.DB
}

func NewProfiles(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

func (p *Profiles) FindByUserID(ctx context.Context, userID string) (*database.Profile, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	var profile database.Profile
	if err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// Save 新建或整体覆盖资料记录。
func (p *Profiles) Save(ctx context.Context, profile *database.Profile) error {
	if profile.ID == "" {
		return translate(p.db.WithContext(ctx).Create(profile).Error)
	}
	return translate(p.db.WithContext(ctx).Save(profile).Error)
}

// FindOrInit 返回用户已有的资料，不存在时返回一份尚未落库的空资料。
func (p *Profiles) FindOrInit(ctx context.Context, userID string) (*database.Profile, error) {
	profile, err := p.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return &database.Profile{UserID: userID}, nil
}
