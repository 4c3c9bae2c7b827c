package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentText       = "text"
	ContentFile       = "file"
	ContentVideo      = "video"
	ContentLink       = "link"
	ContentQuiz       = "quiz"
	ContentAssignment = "assignment"
)

type Module struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseRunID uint      `json:"course_run_id"`
	Title       string    `json:"title" gorm:"not null"`
	Order       uint      `json:"order" gorm:"column:sort_order;default:0"`
	Lessons     []Lesson  `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

type Lesson struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ModuleID    uint      `json:"module_id"`
	Title       string    `json:"title" gorm:"not null"`
	Order       uint      `json:"order" gorm:"column:sort_order;default:0"`
	IsPublished bool      `json:"is_published" gorm:"default:false"`
	Contents    []Content `json:"contents,omitempty" gorm:"foreignKey:LessonID"`
}

// Content is one unit within a Lesson: text, file, video, link, quiz or
// assignment. Quiz and assignment rows carry their detail in the Quiz and
// Assignment tables, one-to-one with the content row.
type Content struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	LessonID  uint           `json:"lesson_id"`
	Type      string         `json:"type" gorm:"not null"`
	Title     string         `json:"title" gorm:"not null"`
	Body      string         `json:"body"`
	FileURL   string         `json:"file_url"`
	VideoURL  string         `json:"video_url"`
	LinkURL   string         `json:"link_url"`
	Order     uint           `json:"order" gorm:"column:sort_order;default:0"`
	IsVisible bool           `json:"is_visible" gorm:"default:true"`
}
