package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// Attendance tracks whether a student attended a live class or an online
// session on a given date.
type Attendance struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseRunID uint      `json:"course_run_id" gorm:"uniqueIndex:idx_att_run_student_date"`
	StudentID   uint      `json:"student_id" gorm:"uniqueIndex:idx_att_run_student_date"`
	Date        time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_att_run_student_date"`
	Status      string    `json:"status" gorm:"default:present"`
}

// Grade is a per-enrollment summary recomputed from the student's scored
// submissions in the course run.
type Grade struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	EnrollmentID uint            `json:"enrollment_id" gorm:"uniqueIndex"`
	TotalScore   decimal.Decimal `json:"total_score" gorm:"type:numeric(6,2);default:0"`
	LetterGrade  string          `json:"letter_grade"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

type Announcement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `json:"institution_id"`
	CourseRunID   *uint     `json:"course_run_id"`
	Title         string    `json:"title" gorm:"not null"`
	Message       string    `json:"message"`
	CreatedByID   *uint     `json:"created_by_id"`
}

type Discussion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseRunID uint      `json:"course_run_id"`
	LessonID    *uint     `json:"lesson_id"`
	UserID      uint      `json:"user_id"`
	Content     string    `json:"content"`
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	InstitutionID uint            `json:"institution_id"`
	StudentID     uint            `json:"student_id"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(10,2)"`
	Reference     string          `json:"reference" gorm:"uniqueIndex;not null"`
	Status        string          `json:"status" gorm:"default:pending"`
}
