package quiz

import (
	"errors"

	"github.com/shopspring/decimal"

	"campus-lms/internal/models"
)

var (
	// ErrInvalidSubmissionKind means the engine was handed a submission that
	// does not reference a quiz. That is a caller defect, not user input.
	ErrInvalidSubmissionKind = errors.New("submission does not reference a quiz")

	ErrAttemptsExhausted = errors.New("no attempts remaining for this quiz")
	ErrDuplicateResponse = errors.New("question already answered in this attempt")
	ErrInvalidAnswer     = errors.New("answer does not match the quiz's question set")
)

// ScoreReport is the result of grading one submission. Achieved never exceeds
// Max. NeedsManual is set when the quiz contains short-answer or numeric
// questions, which have no stored correctness oracle and await a human grade.
type ScoreReport struct {
	Achieved    decimal.Decimal `json:"achieved"`
	Max         decimal.Decimal `json:"max"`
	NeedsManual bool            `json:"needs_manual"`
}

// GradeSubmission computes the achieved and maximum score for a quiz
// submission against the quiz's full question set. The computation is pure:
// it never touches storage, and grading the same unchanged submission twice
// yields the same report. Callers decide whether to persist the result.
//
// Choice-based questions score full points when the selected choice is marked
// correct, zero otherwise. Unanswered questions and questions the engine
// cannot auto-grade contribute zero to the achieved total but full points to
// the maximum.
func GradeSubmission(sub *models.Submission, questions []models.Question) (ScoreReport, error) {
	if sub.Kind != models.SubmissionKindQuiz || sub.QuizID == nil {
		return ScoreReport{}, ErrInvalidSubmissionKind
	}

	byQuestion := make(map[uint]*models.QuizResponse, len(sub.Responses))
	for i := range sub.Responses {
		byQuestion[sub.Responses[i].QuestionID] = &sub.Responses[i]
	}

	report := ScoreReport{Achieved: decimal.Zero, Max: decimal.Zero}
	for i := range questions {
		q := &questions[i]
		report.Max = report.Max.Add(q.Points)

		if !q.IsChoiceBased() {
			report.NeedsManual = true
			continue
		}

		resp, ok := byQuestion[q.ID]
		if !ok || resp.SelectedChoiceID == nil {
			continue
		}
		if choiceIsCorrect(q, *resp.SelectedChoiceID) {
			report.Achieved = report.Achieved.Add(q.Points)
		}
	}

	return report, nil
}

// Passed applies the quiz pass mark to a report. A quiz with no scorable
// points is never passed; in particular there is no division by zero.
func Passed(report ScoreReport, passMarkPercent decimal.Decimal) bool {
	if report.Max.Sign() <= 0 {
		return false
	}
	percent := report.Achieved.Mul(decimal.NewFromInt(100)).Div(report.Max)
	return percent.GreaterThanOrEqual(passMarkPercent)
}

func choiceIsCorrect(q *models.Question, choiceID uint) bool {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return q.Choices[i].IsCorrect
		}
	}
	return false
}
