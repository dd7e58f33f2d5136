package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"aiResume/internal/resume"
)

// PDF 渲染状态，对应 Resume.PdfStatus。
const (
	PDFStatusNone       = ""
	PDFStatusPending    = "pending"
	PDFStatusProcessing = "processing"
	PDFStatusCompleted  = "completed"
	PDFStatusFailed     = "failed"
)

// Base 使用 UUID 字符串作为主键，在插入前生成。
type Base struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate 为未指定 ID 的记录生成 UUID。
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// User 表示系统中的账号信息。
type User struct {
	Base
	Username     string `gorm:"uniqueIndex;size:64"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"size:255"`
}

// Profile 是用户维护的职业资料，每个用户至多一份。
type Profile struct {
	Base
	UserID       string                                 `gorm:"uniqueIndex;size:36"`
	GitHubURL    string                                 `gorm:"column:github_url;size:512"`
	LinkedInURL  string                                 `gorm:"column:linkedin_url;size:512"`
	ProjectLinks datatypes.JSONSlice[string]            `gorm:"column:project_links"`
	Skills       datatypes.JSONSlice[string]            `gorm:"column:skills"`
	Experience   datatypes.JSONSlice[resume.Experience] `gorm:"column:experience"`
	Education    datatypes.JSONSlice[resume.Education]  `gorm:"column:education"`
}

// Resume 表示一次生成得到的简历，生成后内容不再修改，仅 PDF 字段会被 worker 回填。
type Resume struct {
	Base
	UserID          string                              `gorm:"index;size:36"`
	ProfileID       string                              `gorm:"size:36"`
	ResumeData      datatypes.JSONType[resume.Document] `gorm:"column:resume_data"`
	ExpertiseReport datatypes.JSONType[resume.Analysis] `gorm:"column:expertise_report"`
	PdfPath         string                              `gorm:"size:512"`
	PdfStatus       string                              `gorm:"size:32"`
}

// Models 列出需要迁移的全部模型。
func Models() []any {
	return []any{&User{}, &Profile{}, &Resume{}}
}
