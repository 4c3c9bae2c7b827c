package quiz

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"campus-lms/internal/models"
	"campus-lms/pkg/cache"
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

func NewService(repo *Repository, cache *cache.RedisCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Answer is one (question, value) pair in a quiz submission. Exactly one of
// ChoiceID, TextAnswer, NumericAnswer must be set, matching the question type.
type Answer struct {
	QuestionID    uint             `json:"question_id" validate:"required"`
	ChoiceID      *uint            `json:"choice_id"`
	TextAnswer    string           `json:"text_answer"`
	NumericAnswer *decimal.Decimal `json:"numeric_answer"`
}

// SubmissionReport is the graded view of one attempt. Achieved and Max are
// recomputed from the recorded responses on every read; StoredScore is what
// the grading step persisted onto the submission.
type SubmissionReport struct {
	Submission  *models.Submission `json:"submission"`
	Achieved    decimal.Decimal    `json:"achieved"`
	Max         decimal.Decimal    `json:"max"`
	Passed      bool               `json:"passed"`
	NeedsManual bool               `json:"needs_manual"`
	StoredScore *decimal.Decimal   `json:"stored_score"`
}

// GetQuiz serves the quiz with questions, read-through against Redis.
func (s *Service) GetQuiz(quizID uint) (*models.Quiz, error) {
	if s.cache != nil {
		if quiz, err := s.cache.GetQuiz(quizID); err == nil {
			return quiz, nil
		}
	}

	quiz, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuiz(quiz); err != nil {
			log.Printf("Error caching quiz %d: %v", quizID, err)
		}
	}
	return quiz, nil
}

// SubmitQuiz validates the answers against the quiz's question set, admits
// the attempt under the quiz's attempt limit, records one response per
// answered question, auto-grades the attempt and persists the score.
func (s *Service) SubmitQuiz(quizID, studentID uint, answers []Answer) (*SubmissionReport, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	responses, err := buildResponses(quiz, answers)
	if err != nil {
		return nil, err
	}

	sub := models.NewQuizSubmission(quiz.ID, studentID, time.Now())
	sub.Responses = responses

	if err := s.repo.CreateAttempt(sub, quiz.AttemptsAllowed); err != nil {
		return nil, err
	}
	log.Printf("Recorded quiz %d attempt %d for student %d", quiz.ID, sub.AttemptNumber, studentID)

	report, err := GradeSubmission(sub, quiz.Questions)
	if err != nil {
		return nil, err
	}

	// Grading step: persist the computed score with an explicit state
	// transition (ungraded -> auto). Manual grading may override later.
	now := time.Now()
	score := report.Achieved
	sub.Score = &score
	sub.GradingStatus = models.GradingStatusAuto
	sub.GradedAt = &now
	if err := s.repo.UpdateSubmission(sub); err != nil {
		return nil, err
	}

	return &SubmissionReport{
		Submission:  sub,
		Achieved:    report.Achieved,
		Max:         report.Max,
		Passed:      Passed(report, quiz.PassMarkPercent),
		NeedsManual: report.NeedsManual,
		StoredScore: sub.Score,
	}, nil
}

// GetSubmissionReport recomputes the score for an existing attempt and serves
// it next to the stored score.
func (s *Service) GetSubmissionReport(submissionID uint) (*SubmissionReport, error) {
	sub, err := s.repo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Kind != models.SubmissionKindQuiz || sub.QuizID == nil {
		return nil, ErrInvalidSubmissionKind
	}

	quiz, err := s.GetQuiz(*sub.QuizID)
	if err != nil {
		return nil, err
	}

	report, err := GradeSubmission(sub, quiz.Questions)
	if err != nil {
		return nil, err
	}

	return &SubmissionReport{
		Submission:  sub,
		Achieved:    report.Achieved,
		Max:         report.Max,
		Passed:      Passed(report, quiz.PassMarkPercent),
		NeedsManual: report.NeedsManual,
		StoredScore: sub.Score,
	}, nil
}

func (s *Service) AttemptsForStudent(quizID, studentID uint) ([]models.Submission, error) {
	return s.repo.SubmissionsForStudent(quizID, studentID)
}

// buildResponses checks every answer against the quiz's question set before
// anything is persisted: the question must belong to the quiz, appear at most
// once, and carry the answer field its type calls for.
func buildResponses(quiz *models.Quiz, answers []Answer) ([]models.QuizResponse, error) {
	questions := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	seen := make(map[uint]bool, len(answers))
	responses := make([]models.QuizResponse, 0, len(answers))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not part of this quiz", ErrInvalidAnswer, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return nil, ErrDuplicateResponse
		}
		seen[a.QuestionID] = true

		resp := models.QuizResponse{QuestionID: a.QuestionID}
		switch q.Type {
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			if a.ChoiceID == nil {
				return nil, fmt.Errorf("%w: question %d expects a choice", ErrInvalidAnswer, a.QuestionID)
			}
			if !choiceBelongs(q, *a.ChoiceID) {
				return nil, fmt.Errorf("%w: choice %d does not belong to question %d", ErrInvalidAnswer, *a.ChoiceID, a.QuestionID)
			}
			resp.SelectedChoiceID = a.ChoiceID
		case models.QuestionShortAnswer:
			if a.TextAnswer == "" {
				return nil, fmt.Errorf("%w: question %d expects a text answer", ErrInvalidAnswer, a.QuestionID)
			}
			resp.TextAnswer = a.TextAnswer
		case models.QuestionNumeric:
			if a.NumericAnswer == nil {
				return nil, fmt.Errorf("%w: question %d expects a numeric answer", ErrInvalidAnswer, a.QuestionID)
			}
			resp.NumericAnswer = a.NumericAnswer
		default:
			return nil, fmt.Errorf("%w: question %d has unknown type %q", ErrInvalidAnswer, a.QuestionID, q.Type)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func choiceBelongs(q *models.Question, choiceID uint) bool {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return true
		}
	}
	return false
}
