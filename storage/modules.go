package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"course-sales-backend/models/courses"
)

// ModuleRepository is the read-only view of the curriculum.
type ModuleRepository interface {
	List(ctx context.Context) ([]courses.Module, error)
	Get(ctx context.Context, id string) (*courses.Module, error)
}

type GormModuleStore struct {
	db *gorm.DB
}

func NewGormModuleStore(db *gorm.DB) *GormModuleStore {
	return &GormModuleStore{db: db}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

func (s *GormModuleStore) List(ctx context.Context) ([]courses.Module, error) {
	modules := []courses.Module{}
	err := s.db.WithContext(ctx).
		Preload("Lessons", orderedLessons).
		Order("position ASC").Order("id ASC").
		Find(&modules).Error
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

func (s *GormModuleStore) Get(ctx context.Context, id string) (*courses.Module, error) {
	var m courses.Module
	err := s.db.WithContext(ctx).
		Preload("Lessons", orderedLessons).
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get module %s: %w", id, err)
	}
	return &m, nil
}

// StaticModuleStore serves a fixed curriculum from memory. Callers get
// copies, so the backing slice never changes after construction.
type StaticModuleStore struct {
	modules []courses.Module
}

func NewStaticModuleStore(modules []courses.Module) *StaticModuleStore {
	return &StaticModuleStore{modules: cloneModules(modules)}
}

func (s *StaticModuleStore) List(context.Context) ([]courses.Module, error) {
	return cloneModules(s.modules), nil
}

func (s *StaticModuleStore) Get(_ context.Context, id string) (*courses.Module, error) {
	for _, m := range s.modules {
		if m.ID == id {
			c := cloneModule(m)
			return &c, nil
		}
	}
	return nil, ErrModuleNotFound
}

func cloneModules(in []courses.Module) []courses.Module {
	out := make([]courses.Module, len(in))
	for i, m := range in {
		out[i] = cloneModule(m)
	}
	return out
}

func cloneModule(m courses.Module) courses.Module {
	m.Lessons = append([]courses.Lesson(nil), m.Lessons...)
	if m.Lessons == nil {
		m.Lessons = []courses.Lesson{}
	}
	return m
}
