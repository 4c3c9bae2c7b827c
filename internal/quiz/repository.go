package quiz

import (
	"errors"
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

func (r *Repository) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("Questions.Choices").
		First(&quiz, quizID).Error
	if err != nil {
		log.Printf("Error getting quiz %d: %v", quizID, err)
		return nil, err
	}
	return &quiz, nil
}

// CreateAttempt admits and persists a quiz attempt, with its responses,
// atomically. The admission check and the insert run in one transaction; the
// unique (quiz, student, attempt_number) index backstops the check under
// concurrency. A transaction that loses that race is re-admitted with a
// fresh count rather than turned away, so ErrAttemptsExhausted always means
// the limit really was reached.
func (r *Repository) CreateAttempt(sub *models.Submission, attemptsAllowed uint) error {
	for tries := 0; ; tries++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			var used int64
			if err := tx.Model(&models.Submission{}).
				Where("quiz_id = ? AND student_id = ?", *sub.QuizID, sub.StudentID).
				Count(&used).Error; err != nil {
				return err
			}
			if used >= int64(attemptsAllowed) {
				return ErrAttemptsExhausted
			}

			// Number after the highest attempt on record, not after the
			// count, so gaps never collide.
			var last int64
			if err := tx.Model(&models.Submission{}).
				Where("quiz_id = ? AND student_id = ?", *sub.QuizID, sub.StudentID).
				Select("COALESCE(MAX(attempt_number), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			sub.AttemptNumber = uint(last) + 1
			return tx.Create(sub).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) || tries >= 2 {
			return err
		}
	}
}

func (r *Repository) GetSubmission(submissionID uint) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.Preload("Responses").First(&sub, submissionID).Error
	if err != nil {
		log.Printf("Error getting submission %d: %v", submissionID, err)
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) UpdateSubmission(sub *models.Submission) error {
	return r.db.Save(sub).Error
}

// SubmissionsForStudent lists a student's quiz attempts, newest first.
func (r *Repository) SubmissionsForStudent(quizID, studentID uint) ([]models.Submission, error) {
	var subs []models.Submission
	err := r.db.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("attempt_number desc").
		Find(&subs).Error
	return subs, err
}
