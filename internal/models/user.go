package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
	RoleParent     = "parent"
	RoleAccountant = "accountant"
)

type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	InstitutionID   *uint          `json:"institution_id"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	Password        string         `json:"-" gorm:"not null"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           string         `json:"phone"`
	Role            string         `json:"role" gorm:"default:student"`
	IsEmailVerified bool           `json:"is_email_verified" gorm:"default:false"`
	IsPhoneVerified bool           `json:"is_phone_verified" gorm:"default:false"`
	Profile         *Profile       `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
}

// CanGrade reports whether the user may grade submissions and manage
// course-run records.
func (u *User) CanGrade() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin || u.Role == RoleOwner
}
