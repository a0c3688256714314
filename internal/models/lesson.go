package models

import (
	"time"

	"gorm.io/gorm"
)

type Lesson struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CourseID      uint   `gorm:"index;not null" json:"course_id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `json:"description"`
	Content       string `gorm:"type:text" json:"content,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
	DurationSec   int    `json:"duration_sec"`
	SequenceOrder int    `gorm:"index" json:"sequence_order"`
	IsFree        bool   `gorm:"default:false" json:"is_free"`
	IsPublished   bool   `gorm:"default:false" json:"is_published"`
}

// Preview strips the gated fields so the lesson can be shown to users who
// are not enrolled in the course.
func (l Lesson) Preview() Lesson {
	if !l.IsFree {
		l.Content = ""
		l.VideoURL = ""
	}
	return l
}
