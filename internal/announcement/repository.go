package announcement

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

func (r *Repository) Create(a *models.Announcement) error {
	return r.db.Create(a).Error
}

func (r *Repository) ListForInstitution(institutionID uint) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.Where("institution_id = ?", institutionID).
		Order("created_at desc").
		Find(&announcements).Error
	return announcements, err
}

func (r *Repository) CreateDiscussion(d *models.Discussion) error {
	return r.db.Create(d).Error
}

func (r *Repository) ListDiscussionsForRun(courseRunID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.Where("course_run_id = ?", courseRunID).
		Order("created_at asc").
		Find(&discussions).Error
	return discussions, err
}

func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
