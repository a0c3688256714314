package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is soft-deleted via DeletedAt; a review counts toward the course
// rating aggregate only while it is not deleted. At most one live review
// exists per (user, course).
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint   `gorm:"index:idx_review_user_course;not null" json:"user_id"`
	CourseID uint   `gorm:"index:idx_review_user_course;not null" json:"course_id"`
	Rating   int    `gorm:"check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

// RatingStats is the aggregate shape returned for a course or the whole
// platform: average, count and a 1-5 star histogram.
type RatingStats struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"`
}
