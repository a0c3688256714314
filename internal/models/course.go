package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"

	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// CourseCategories lists the allowed category values.
var CourseCategories = []string{
	"programming", "design", "business", "language", "science", "other",
}

// Course carries the derived aggregate fields Rating, TotalRatings and
// TotalEnrollments. They are recomputed inside the same transaction as the
// review/enrollment write that changes them (see internal/store).
type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title        string         `gorm:"not null" json:"title"`
	ShortDesc    string         `json:"short_desc"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"index" json:"category"`
	Level        string         `gorm:"default:beginner" json:"level"`
	Price        float64        `gorm:"default:0" json:"price"`
	Currency     string         `gorm:"default:USD;size:3" json:"currency"`
	Status       string         `gorm:"default:draft;index" json:"status"` // draft, published, archived
	ThumbnailURL string         `json:"thumbnail_url"`
	Requirements datatypes.JSON `json:"requirements"`
	Objectives   datatypes.JSON `json:"objectives"`
	Tags         datatypes.JSON `json:"tags"`

	InstructorID uint `gorm:"index;not null" json:"instructor_id"`
	Instructor   User `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`

	Rating           float64 `gorm:"default:0" json:"rating"`
	TotalRatings     int64   `gorm:"default:0" json:"total_ratings"`
	TotalEnrollments int64   `gorm:"default:0" json:"total_enrollments"`

	Lessons []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func ValidCourseCategory(category string) bool {
	for _, c := range CourseCategories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidCourseLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func ValidCourseStatus(status string) bool {
	switch status {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}
