package payment

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"campus-lms/internal/models"
)

var (
	ErrNoInstitution = errors.New("user does not belong to an institution")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrUnknownStatus = errors.New("unknown payment status")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Record creates a pending fee payment with a fresh unique reference that a
// gateway callback can later settle.
func (s *Service) Record(studentID uint, amount decimal.Decimal) (*models.Payment, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	student, err := s.repo.GetUserByID(studentID)
	if err != nil {
		return nil, err
	}
	if student.InstitutionID == nil {
		return nil, ErrNoInstitution
	}

	p := &models.Payment{
		InstitutionID: *student.InstitutionID,
		StudentID:     studentID,
		Amount:        amount,
		Reference:     uuid.NewString(),
		Status:        models.PaymentPending,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}

	log.Printf("Recorded payment %s for student %d", p.Reference, studentID)
	return p, nil
}

func (s *Service) ListForStudent(studentID uint) ([]models.Payment, error) {
	return s.repo.ListForStudent(studentID)
}

// Settle moves a payment out of pending, from a gateway callback.
func (s *Service) Settle(reference, status string) (*models.Payment, error) {
	if status != models.PaymentCompleted && status != models.PaymentFailed {
		return nil, ErrUnknownStatus
	}

	if _, err := s.repo.GetByReference(reference); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(reference, status); err != nil {
		return nil, err
	}
	return s.repo.GetByReference(reference)
}
