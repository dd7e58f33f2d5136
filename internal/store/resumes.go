package store

import (
	"context"

	"gorm.io/gorm"

	"aiResume/internal/database"
)

// Resumes 是 resumes 表的仓储。
type Resumes struct {
	db *gorm.DB
}

func NewResumes(db *gorm.DB) *Resumes {
	return &Resumes{db: db}
}

func (r *Resumes) Create(ctx context.Context, resume *database.Resume) error {
	return translate(r.db.WithContext(ctx).Create(resume).Error)
}

func (r *Resumes) FindByID(ctx context.Context, id string) (*database.Resume, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var resume database.Resume
	if err := r.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &resume, nil
}

// ListByUserID 按创建时间倒序返回用户的全部简历。
func (r *Resumes) ListByUserID(ctx context.Context, userID string) ([]database.Resume, error) {
	var resumes []database.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&resumes).Error
	if err != nil {
		return nil, err
	}
	return resumes, nil
}

func (r *Resumes) FindLatestByUserID(ctx context.Context, userID string) (*database.Resume, error) {
	var resume database.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&resume).Error
	if err != nil {
		return nil, translate(err)
	}
	return &resume, nil
}

// UpdatePDF 回填 PDF 状态与对象路径；path 为空时只更新状态。
func (r *Resumes) UpdatePDF(ctx context.Context, id, status, path string) error {
	updates := map[string]any{"pdf_status": status}
	if path != "" {
		updates["pdf_path"] = path
	}
	res := r.db.WithContext(ctx).Model(&database.Resume{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
