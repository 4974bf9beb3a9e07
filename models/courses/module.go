package courses

import "time"

// Module is a top-level course unit. Rows are written by the seed command
// and only read by the API.
type Module struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Title       string    `gorm:"not null" json:"title" yaml:"title"`
	Description string    `gorm:"type:text;not null" json:"description" yaml:"description"`
	Duration    string    `gorm:"not null" json:"duration" yaml:"duration"`
	Difficulty  string    `gorm:"not null" json:"difficulty" yaml:"difficulty"`
	Position    int       `gorm:"not null;default:0;index" json:"position" yaml:"-"`
	Lessons     []Lesson  `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons" yaml:"lessons"`
	CreatedAt   time.Time `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"-" yaml:"-"`
}

// Lesson ids are only unique within their module.
type Lesson struct {
	ModuleID string `gorm:"primaryKey;size:64" json:"-" yaml:"-"`
	ID       string `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Title    string `gorm:"not null" json:"title" yaml:"title"`
	Summary  string `gorm:"type:text" json:"summary" yaml:"summary"`
	Position int    `gorm:"not null;default:0" json:"position" yaml:"-"`
}

// HasLesson reports whether lessonID belongs to the module.
func (m Module) HasLesson(lessonID string) bool {
	for _, l := range m.Lessons {
		if l.ID == lessonID {
			return true
		}
	}
	return false
}
