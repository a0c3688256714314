package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusCancelled = "cancelled"
)

// Enrollment records that a user is taking a course. There is at most one
// row per (user, course); cancellation flips the status and a later
// re-enroll reactivates the same row instead of inserting a duplicate.
type Enrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"user_id"`
	CourseID uint `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"course_id"`

	Status           string         `gorm:"default:active;index" json:"status"` // active, completed, cancelled
	Progress         float64        `gorm:"default:0" json:"progress"`          // 0-100, derived from CompletedLessons
	CompletedLessons datatypes.JSON `json:"completed_lessons"`
	CurrentLessonID  *uint          `json:"current_lesson_id,omitempty"`
	WatchTimeSec     int            `gorm:"default:0" json:"watch_time_sec"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

// CompletedLessonIDs decodes the completed-lesson set. A malformed or empty
// column is treated as an empty set rather than an error.
func (e *Enrollment) CompletedLessonIDs() []uint {
	var ids []uint
	if len(e.CompletedLessons) == 0 {
		return ids
	}
	if err := json.Unmarshal(e.CompletedLessons, &ids); err != nil {
		return nil
	}
	return ids
}

func (e *Enrollment) SetCompletedLessonIDs(ids []uint) {
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	e.CompletedLessons = raw
}
