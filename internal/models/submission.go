package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SubmissionKindQuiz       = "quiz"
	SubmissionKindAssignment = "assignment"
)

const (
	GradingStatusUngraded = "ungraded"
	GradingStatusAuto     = "auto"
	GradingStatusManual   = "manual"
)

var ErrSubmissionTarget = errors.New("submission must reference exactly one of quiz or assignment")

// Submission is one attempt by a student at a quiz or an assignment. Kind
// discriminates the target; the matching foreign key must be set and the
// other must be nil. Use NewQuizSubmission / NewAssignmentSubmission rather
// than constructing the struct by hand.
type Submission struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Kind          string           `json:"kind" gorm:"not null"`
	QuizID        *uint            `json:"quiz_id" gorm:"uniqueIndex:idx_sub_quiz_student_attempt"`
	AssignmentID  *uint            `json:"assignment_id"`
	StudentID     uint             `json:"student_id" gorm:"uniqueIndex:idx_sub_quiz_student_attempt"`
	AttemptNumber uint             `json:"attempt_number" gorm:"default:1;uniqueIndex:idx_sub_quiz_student_attempt"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	FileURL       string           `json:"file_url"`
	TextAnswer    string           `json:"text_answer"`
	Score         *decimal.Decimal `json:"score" gorm:"type:numeric(6,2)"`
	GradingStatus string           `json:"grading_status" gorm:"default:ungraded"`
	GradedByID    *uint            `json:"graded_by_id"`
	GradedAt      *time.Time       `json:"graded_at"`
	Responses     []QuizResponse   `json:"responses,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

func NewQuizSubmission(quizID, studentID uint, submittedAt time.Time) *Submission {
	return &Submission{
		Kind:        SubmissionKindQuiz,
		QuizID:      &quizID,
		StudentID:   studentID,
		SubmittedAt: submittedAt,
	}
}

func NewAssignmentSubmission(assignmentID, studentID uint, textAnswer string, submittedAt time.Time) *Submission {
	return &Submission{
		Kind:         SubmissionKindAssignment,
		AssignmentID: &assignmentID,
		StudentID:    studentID,
		TextAnswer:   textAnswer,
		SubmittedAt:  submittedAt,
	}
}

// BeforeCreate enforces the exactly-one-target invariant at the storage
// boundary as well, so a hand-built struct cannot slip past the constructors.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	switch s.Kind {
	case SubmissionKindQuiz:
		if s.QuizID == nil || s.AssignmentID != nil {
			return ErrSubmissionTarget
		}
	case SubmissionKindAssignment:
		if s.AssignmentID == nil || s.QuizID != nil {
			return ErrSubmissionTarget
		}
	default:
		return ErrSubmissionTarget
	}
	return nil
}

// QuizResponse is one answer to one question within a submission. Exactly one
// of SelectedChoiceID, TextAnswer, NumericAnswer is set, matching the
// question's type. A student cannot answer the same question twice in one
// attempt: (submission_id, question_id) is unique.
type QuizResponse struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	SubmissionID     uint             `json:"submission_id" gorm:"uniqueIndex:idx_resp_submission_question"`
	QuestionID       uint             `json:"question_id" gorm:"uniqueIndex:idx_resp_submission_question"`
	SelectedChoiceID *uint            `json:"selected_choice_id"`
	TextAnswer       string           `json:"text_answer"`
	NumericAnswer    *decimal.Decimal `json:"numeric_answer" gorm:"type:numeric(10,2)"`
}
