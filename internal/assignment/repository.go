package assignment

import (
	"log"

	"gorm.io/gorm"

	"campus-lms/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAssignmentByID(id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		log.Printf("Error getting assignment %d: %v", id, err)
		return nil, err
	}
	return &assignment, nil
}

func (r *Repository) CreateSubmission(sub *models.Submission) error {
	return r.db.Create(sub).Error
}

func (r *Repository) GetSubmission(id uint) (*models.Submission, error) {
	var sub models.Submission
	if err := r.db.First(&sub, id).Error; err != nil {
		log.Printf("Error getting submission %d: %v", id, err)
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) UpdateSubmission(sub *models.Submission) error {
	return r.db.Save(sub).Error
}

func (r *Repository) SubmissionsForAssignment(assignmentID uint) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.Where("assignment_id = ?", assignmentID).
		Order("submitted_at").
		Find(&subs).Error
	return subs, err
}
