// Package store 封装 users / profiles / resumes 三张表的读写。
package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 表示记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID 表示 ID 不是合法的 UUID，按"不存在"处理而非系统错误。
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicate 表示唯一约束冲突。
	ErrDuplicate = errors.New("duplicate record")
)

// Store 聚合三个仓储，便于一次性注入。
type Store struct {
	Users    *Users
	Profiles *Profiles
	Resumes  *Resumes
}

// New 基于同一个 gorm 连接创建全部仓储。
func New(db *gorm.DB) *Store {
	return &Store{
		Users:    NewUsers(db),
		Profiles: NewProfiles(db),
		Resumes:  NewResumes(db),
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
