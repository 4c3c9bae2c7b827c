package quiz

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lms/internal/models"
)

func mcq(id uint, points int64, correctChoice, wrongChoice uint) models.Question {
	return models.Question{
		ID:     id,
		Type:   models.QuestionMultipleChoice,
		Points: decimal.NewFromInt(points),
		Choices: []models.Choice{
			{ID: correctChoice, QuestionID: id, IsCorrect: true},
			{ID: wrongChoice, QuestionID: id, IsCorrect: false},
		},
	}
}

func quizAttempt(quizID uint, responses ...models.QuizResponse) *models.Submission {
	sub := models.NewQuizSubmission(quizID, 7, time.Now())
	sub.Responses = responses
	return sub
}

func choiceResponse(questionID, choiceID uint) models.QuizResponse {
	return models.QuizResponse{QuestionID: questionID, SelectedChoiceID: &choiceID}
}

func TestGradeSubmission_OneCorrectOneWrong(t *testing.T) {
	questions := []models.Question{
		mcq(1, 5, 10, 11),
		mcq(2, 5, 20, 21),
	}
	sub := quizAttempt(1,
		choiceResponse(1, 10), // correct
		choiceResponse(2, 21), // wrong
	)

	report, err := GradeSubmission(sub, questions)
	require.NoError(t, err)

	assert.True(t, report.Achieved.Equal(decimal.NewFromInt(5)), "achieved = %s", report.Achieved)
	assert.True(t, report.Max.Equal(decimal.NewFromInt(10)), "max = %s", report.Max)
	assert.False(t, report.NeedsManual)

	assert.True(t, Passed(report, decimal.NewFromInt(50)))
	assert.False(t, Passed(report, decimal.NewFromInt(51)))
}

func TestGradeSubmission_UnansweredCountsTowardMax(t *testing.T) {
	questions := []models.Question{
		mcq(1, 5, 10, 11),
		mcq(2, 3, 20, 21),
	}
	sub := quizAttempt(1, choiceResponse(1, 10))

	report, err := GradeSubmission(sub, questions)
	require.NoError(t, err)

	assert.True(t, report.Achieved.Equal(decimal.NewFromInt(5)))
	assert.True(t, report.Max.Equal(decimal.NewFromInt(8)))
}

func TestGradeSubmission_AchievedNeverExceedsMax(t *testing.T) {
	questions := []models.Question{
		mcq(1, 5, 10, 11),
		mcq(2, 5, 20, 21),
		mcq(3, 1, 30, 31),
	}
	sub := quizAttempt(1,
		choiceResponse(1, 10),
		choiceResponse(2, 20),
		choiceResponse(3, 30),
	)

	report, err := GradeSubmission(sub, questions)
	require.NoError(t, err)
	assert.True(t, report.Achieved.LessThanOrEqual(report.Max))
}

func TestGradeSubmission_ShortAnswerNeedsManualGrading(t *testing.T) {
	questions := []models.Question{
		mcq(1, 5, 10, 11),
		{ID: 2, Type: models.QuestionShortAnswer, Points: decimal.NewFromInt(5)},
	}
	sub := quizAttempt(1,
		choiceResponse(1, 10),
		models.QuizResponse{QuestionID: 2, TextAnswer: "photosynthesis"},
	)

	report, err := GradeSubmission(sub, questions)
	require.NoError(t, err)

	// Short answers have no correctness oracle: zero achieved, full max.
	assert.True(t, report.Achieved.Equal(decimal.NewFromInt(5)))
	assert.True(t, report.Max.Equal(decimal.NewFromInt(10)))
	assert.True(t, report.NeedsManual)
}

func TestGradeSubmission_EmptyQuizIsNeverPassed(t *testing.T) {
	sub := quizAttempt(1)

	report, err := GradeSubmission(sub, nil)
	require.NoError(t, err)

	assert.True(t, report.Max.IsZero())
	assert.False(t, Passed(report, decimal.Zero))
	assert.False(t, Passed(report, decimal.NewFromInt(50)))
}

func TestGradeSubmission_Idempotent(t *testing.T) {
	questions := []models.Question{mcq(1, 5, 10, 11), mcq(2, 5, 20, 21)}
	sub := quizAttempt(1, choiceResponse(1, 10))

	first, err := GradeSubmission(sub, questions)
	require.NoError(t, err)
	second, err := GradeSubmission(sub, questions)
	require.NoError(t, err)

	assert.True(t, first.Achieved.Equal(second.Achieved))
	assert.True(t, first.Max.Equal(second.Max))
	assert.Equal(t, first.NeedsManual, second.NeedsManual)
}

func TestGradeSubmission_RejectsAssignmentSubmission(t *testing.T) {
	sub := models.NewAssignmentSubmission(3, 7, "essay", time.Now())

	_, err := GradeSubmission(sub, nil)
	assert.ErrorIs(t, err, ErrInvalidSubmissionKind)
}
