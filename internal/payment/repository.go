package payment

import (
	"gorm.io/gorm"

	"campus-lms/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *Repository) ListForStudent(studentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&payments).Error
	return payments, err
}

func (r *Repository) GetByReference(reference string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) UpdateStatus(reference, status string) error {
	return r.db.Model(&models.Payment{}).
		Where("reference = ?", reference).
		Update("status", status).Error
}

func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
