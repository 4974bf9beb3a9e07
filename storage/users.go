package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-sales-backend/models/users"
)

type UserRepository interface {
	Create(ctx context.Context, u *users.User) error
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
	// FindOrCreate returns the account for email, creating a passwordless one
	// for the given provider when none exists.
	FindOrCreate(ctx context.Context, email, provider string) (*users.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type ProgressRepository interface {
	Progress(ctx context.Context, userID string) ([]users.Progress, error)
	CompleteLesson(ctx context.Context, userID, moduleID, lessonID string) ([]users.Progress, error)
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *GormUserStore) Create(ctx context.Context, u *users.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Provider == "" {
		u.Provider = users.ProviderLocal
	}
	u.Email = normalizeEmail(u.Email)

	if _, err := s.FindByEmail(ctx, u.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.first(ctx, "email = ?", normalizeEmail(email))
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*users.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUserStore) first(ctx context.Context, query string, arg string) (*users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *GormUserStore) FindOrCreate(ctx context.Context, email, provider string) (*users.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	u = &users.User{Email: email, Provider: provider}
	if err := s.Create(ctx, u); err != nil {
		// Lost a race with a concurrent sign-in for the same address.
		if errors.Is(err, ErrEmailTaken) {
			return s.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return u, nil
}

func (s *GormUserStore) UpdatePassword(ctx context.Context, id, hash string) error {
	res := s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormUserStore) Progress(ctx context.Context, userID string) ([]users.Progress, error) {
	return s.progress(s.db.WithContext(ctx), userID)
}

func (s *GormUserStore) progress(db *gorm.DB, userID string) ([]users.Progress, error) {
	var count int64
	if err := db.Model(&users.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	// Curriculum order, matching GormModuleStore.List.
	records := []users.Progress{}
	err := db.Select("progresses.*").
		Joins("LEFT JOIN modules ON modules.id = progresses.module_id").
		Where("progresses.user_id = ?", userID).
		Order("modules.position ASC").
		Order("progresses.module_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	for i := range records {
		if records[i].CompletedLessons == nil {
			records[i].CompletedLessons = []string{}
		}
	}
	return records, nil
}

// CompleteLesson marks lessonID done. Module and lesson existence is the
// caller's concern; this store only tracks ids.
func (s *GormUserStore) CompleteLesson(ctx context.Context, userID, moduleID, lessonID string) ([]users.Progress, error) {
	var out []users.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.progress(tx, userID); err != nil {
			return err
		}

		row := users.Progress{UserID: userID, ModuleID: moduleID, CompletedLessons: []string{}}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("create progress row: %w", err)
		}

		var existing users.Progress
		if err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&existing).Error; err != nil {
			return fmt.Errorf("load progress row: %w", err)
		}
		if existing.Complete(lessonID) {
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("save progress: %w", err)
			}
		}

		records, err := s.progress(tx, userID)
		if err != nil {
			return err
		}
		out = records
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MockProgressStore returns the same fixed progress for every caller and
// refuses writes.
type MockProgressStore struct {
	records []users.Progress
}

func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{records: []users.Progress{
		{ModuleID: "1", CompletedLessons: []string{"1-1"}},
		{ModuleID: "2", CompletedLessons: []string{}},
	}}
}

func (s *MockProgressStore) Progress(context.Context, string) ([]users.Progress, error) {
	out := make([]users.Progress, len(s.records))
	for i, r := range s.records {
		r.CompletedLessons = append([]string{}, r.CompletedLessons...)
		out[i] = r
	}
	return out, nil
}

func (s *MockProgressStore) CompleteLesson(context.Context, string, string, string) ([]users.Progress, error) {
	return nil, ErrReadOnly
}
