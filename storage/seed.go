package storage

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-sales-backend/models/courses"
	"course-sales-backend/models/users"
)

//go:embed seed/modules.yaml
var defaultSeed []byte

type seedFile struct {
	Modules []courses.Module `yaml:"modules"`
}

// DefaultModules returns the curriculum shipped with the binary.
func DefaultModules() ([]courses.Module, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

// LoadSeed parses a YAML curriculum and assigns positions from document
// order.
func LoadSeed(r io.Reader) ([]courses.Module, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	seen := make(map[string]struct{}, len(f.Modules))
	for i := range f.Modules {
		m := &f.Modules[i]
		if m.ID == "" || m.Title == "" {
			return nil, fmt.Errorf("%w: module %d needs id and title", ErrInvalidSeed, i)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate module id %q", ErrInvalidSeed, m.ID)
		}
		seen[m.ID] = struct{}{}
		m.Position = i

		lessonIDs := make(map[string]struct{}, len(m.Lessons))
		for j := range m.Lessons {
			l := &m.Lessons[j]
			if l.ID == "" {
				return nil, fmt.Errorf("%w: module %q lesson %d has no id", ErrInvalidSeed, m.ID, j)
			}
			if _, dup := lessonIDs[l.ID]; dup {
				return nil, fmt.Errorf("%w: module %q repeats lesson %q", ErrInvalidSeed, m.ID, l.ID)
			}
			lessonIDs[l.ID] = struct{}{}
			l.ModuleID = m.ID
			l.Position = j
		}
	}
	return f.Modules, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&courses.Module{},
		&courses.Lesson{},
		&users.User{},
		&users.Progress{},
	)
}

// SeedModules upserts the given curriculum. Lessons that disappeared from a
// module are removed so the store mirrors the seed.
func SeedModules(ctx context.Context, db *gorm.DB, modules []courses.Module) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range modules {
			lessons := m.Lessons
			m.Lessons = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
				return fmt.Errorf("upsert module %s: %w", m.ID, err)
			}
			if err := tx.Where("module_id = ?", m.ID).Delete(&courses.Lesson{}).Error; err != nil {
				return fmt.Errorf("clear lessons of %s: %w", m.ID, err)
			}
			if len(lessons) == 0 {
				continue
			}
			if err := tx.Create(&lessons).Error; err != nil {
				return fmt.Errorf("insert lessons of %s: %w", m.ID, err)
			}
		}
		return nil
	})
}
