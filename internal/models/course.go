package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Course struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
	InstitutionID uint            `json:"institution_id" gorm:"uniqueIndex:idx_course_inst_code"`
	Code          string          `json:"code" gorm:"uniqueIndex:idx_course_inst_code;not null"`
	Title         string          `json:"title" gorm:"not null"`
	Description   string          `json:"description"`
	ProgramID     *uint           `json:"program_id"`
	Credits       decimal.Decimal `json:"credits" gorm:"type:numeric(4,1);default:3"`
	IsPublished   bool            `json:"is_published" gorm:"default:false"`
	Runs          []CourseRun     `json:"runs,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseRun is one offering of a Course within a Term (a section).
type CourseRun struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	InstitutionID uint       `json:"institution_id"`
	CourseID      uint       `json:"course_id" gorm:"uniqueIndex:idx_run_course_term_name"`
	TermID        uint       `json:"term_id" gorm:"uniqueIndex:idx_run_course_term_name"`
	Name          string     `json:"name" gorm:"uniqueIndex:idx_run_course_term_name;default:Main"`
	Capacity      uint       `json:"capacity" gorm:"default:0"` // 0 = unlimited
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Teachers      []User     `json:"teachers,omitempty" gorm:"many2many:course_run_teachers"`
	Modules       []Module   `json:"modules,omitempty" gorm:"foreignKey:CourseRunID"`
}

type Enrollment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `json:"institution_id"`
	CourseRunID   uint      `json:"course_run_id" gorm:"uniqueIndex:idx_enroll_run_student"`
	StudentID     uint      `json:"student_id" gorm:"uniqueIndex:idx_enroll_run_student"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
}
