package users

import "time"

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null;default:''" json:"-"`
	Provider  string     `gorm:"not null;default:local" json:"provider"`
	Progress  []Progress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"progress,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"-"`
}

// Progress records the completed lessons of one module for one user.
type Progress struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	UserID           string    `gorm:"size:36;not null;uniqueIndex:idx_progress_user_module" json:"-"`
	ModuleID         string    `gorm:"size:64;not null;uniqueIndex:idx_progress_user_module" json:"moduleId"`
	CompletedLessons []string  `gorm:"serializer:json;type:text" json:"completedLessons"`
	UpdatedAt        time.Time `json:"-"`
}

func (Progress) TableName() string { return "progresses" }

// Complete adds lessonID to the completed set and reports whether it was new.
func (p *Progress) Complete(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return false
		}
	}
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	return true
}
