package assignment

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"campus-lms/internal/models"
)

var (
	// ErrSubmissionClosed means the assignment is past due and does not
	// accept late work.
	ErrSubmissionClosed = errors.New("assignment is closed for submissions")

	// ErrInvalidSubmissionKind means a grading call was handed a submission
	// that does not reference an assignment. Caller defect.
	ErrInvalidSubmissionKind = errors.New("submission does not reference an assignment")

	ErrNegativeScore = errors.New("score must not be negative")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAssignment(id uint) (*models.Assignment, error) {
	return s.repo.GetAssignmentByID(id)
}

// SubmitAssignment records a free-text attempt. Past the due date the attempt
// is rejected unless the assignment accepts late work; a late accepted
// attempt is penalized when it is eventually graded, not here.
func (s *Service) SubmitAssignment(assignmentID, studentID uint, textAnswer, fileURL string) (*models.Submission, error) {
	assignment, err := s.repo.GetAssignmentByID(assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if assignment.DueAt != nil && now.After(*assignment.DueAt) && !assignment.AllowLate {
		return nil, ErrSubmissionClosed
	}

	sub := models.NewAssignmentSubmission(assignment.ID, studentID, textAnswer, now)
	sub.FileURL = fileURL
	if err := s.repo.CreateSubmission(sub); err != nil {
		return nil, err
	}

	log.Printf("Recorded assignment %d submission %d for student %d", assignment.ID, sub.ID, studentID)
	return sub, nil
}

// Grade records a manual grade for an assignment submission, applying the
// late penalty when the submission came in after the due date.
func (s *Service) Grade(submissionID, graderID uint, rawScore decimal.Decimal) (*models.Submission, error) {
	if rawScore.Sign() < 0 {
		return nil, ErrNegativeScore
	}

	sub, err := s.repo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Kind != models.SubmissionKindAssignment || sub.AssignmentID == nil {
		return nil, ErrInvalidSubmissionKind
	}

	assignment, err := s.repo.GetAssignmentByID(*sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	final := ApplyLatePenalty(rawScore, assignment, sub.SubmittedAt)
	now := time.Now()
	sub.Score = &final
	sub.GradingStatus = models.GradingStatusManual
	sub.GradedByID = &graderID
	sub.GradedAt = &now

	if err := s.repo.UpdateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) SubmissionsForAssignment(assignmentID uint) ([]models.Submission, error) {
	return s.repo.SubmissionsForAssignment(assignmentID)
}

// ApplyLatePenalty returns the recorded score for a raw grade: on-time work
// keeps the raw score, late work is reduced by the assignment's penalty
// percentage and floored at zero.
func ApplyLatePenalty(raw decimal.Decimal, assignment *models.Assignment, submittedAt time.Time) decimal.Decimal {
	if assignment.DueAt == nil || !submittedAt.After(*assignment.DueAt) {
		return raw
	}

	factor := decimal.NewFromInt(1).Sub(assignment.LatePenaltyPercent.Div(decimal.NewFromInt(100)))
	final := raw.Mul(factor)
	if final.Sign() < 0 {
		return decimal.Zero
	}
	return final
}
