package models

import (
	"time"

	"gorm.io/gorm"
)

type Institution struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Name         string         `json:"name" gorm:"not null"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;not null"`
	LogoURL      string         `json:"logo_url"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone"`
	Address      string         `json:"address"`
	Timezone     string         `json:"timezone" gorm:"default:Africa/Kampala"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
}

type AcademicYear struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `json:"institution_id" gorm:"uniqueIndex:idx_year_inst_name"`
	Name          string    `json:"name" gorm:"uniqueIndex:idx_year_inst_name;not null"` // e.g. 2025/2026
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsCurrent     bool      `json:"is_current" gorm:"default:false"`
}

type Term struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	InstitutionID  uint      `json:"institution_id"`
	AcademicYearID uint      `json:"academic_year_id" gorm:"uniqueIndex:idx_term_year_name"`
	Name           string    `json:"name" gorm:"uniqueIndex:idx_term_year_name;not null"` // Term 1, Term 2, ...
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

type Department struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `json:"institution_id" gorm:"uniqueIndex:idx_dept_inst_name"`
	Name          string    `json:"name" gorm:"uniqueIndex:idx_dept_inst_name;not null"`
}

type Program struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	InstitutionID uint      `json:"institution_id" gorm:"uniqueIndex:idx_program_inst_code"`
	Code          string    `json:"code" gorm:"uniqueIndex:idx_program_inst_code;not null"`
	Name          string    `json:"name" gorm:"not null"`
	DepartmentID  *uint     `json:"department_id"`
	Description   string    `json:"description"`
}
