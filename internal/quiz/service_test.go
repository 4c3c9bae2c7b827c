package quiz

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-lms/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.Submission{},
		&models.QuizResponse{},
	))
	return db
}

// seedQuiz creates a quiz with two five-point multiple-choice questions, each
// with one correct and one wrong choice, pass mark 50%.
func seedQuiz(t *testing.T, db *gorm.DB, attemptsAllowed uint) *models.Quiz {
	t.Helper()

	q := &models.Quiz{
		ContentID:       1,
		AttemptsAllowed: attemptsAllowed,
		PassMarkPercent: decimal.NewFromInt(50),
		Questions: []models.Question{
			{
				Text:   "Capital of Uganda?",
				Type:   models.QuestionMultipleChoice,
				Points: decimal.NewFromInt(5),
				Choices: []models.Choice{
					{Text: "Kampala", IsCorrect: true},
					{Text: "Nairobi"},
				},
			},
			{
				Text:   "2 + 2?",
				Type:   models.QuestionMultipleChoice,
				Points: decimal.NewFromInt(5),
				Choices: []models.Choice{
					{Text: "4", IsCorrect: true},
					{Text: "5"},
				},
			},
		},
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func correctAndWrongAnswers(q *models.Quiz) []Answer {
	return []Answer{
		{QuestionID: q.Questions[0].ID, ChoiceID: &q.Questions[0].Choices[0].ID}, // correct
		{QuestionID: q.Questions[1].ID, ChoiceID: &q.Questions[1].Choices[1].ID}, // wrong
	}
}

func TestSubmitQuiz_EndToEnd(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 1)

	report, err := svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	require.NoError(t, err)

	assert.True(t, report.Achieved.Equal(decimal.NewFromInt(5)), "achieved = %s", report.Achieved)
	assert.True(t, report.Max.Equal(decimal.NewFromInt(10)), "max = %s", report.Max)
	assert.True(t, report.Passed)

	// The grading step persisted the score with an auto-graded state.
	var stored models.Submission
	require.NoError(t, db.Preload("Responses").First(&stored, report.Submission.ID).Error)
	require.NotNil(t, stored.Score)
	assert.True(t, stored.Score.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, models.GradingStatusAuto, stored.GradingStatus)
	assert.NotNil(t, stored.GradedAt)
	assert.Equal(t, uint(1), stored.AttemptNumber)
	assert.Len(t, stored.Responses, 2)
}

func TestSubmitQuiz_AttemptLimit(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 1)

	_, err := svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	require.NoError(t, err)

	_, err = svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	// A different student still has their own attempts.
	_, err = svc.SubmitQuiz(q.ID, 43, correctAndWrongAnswers(q))
	assert.NoError(t, err)
}

func TestSubmitQuiz_SecondAttemptAllowed(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 2)

	first, err := svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	require.NoError(t, err)
	second, err := svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	require.NoError(t, err)

	assert.Equal(t, uint(1), first.Submission.AttemptNumber)
	assert.Equal(t, uint(2), second.Submission.AttemptNumber)

	_, err = svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
}

func TestSubmitQuiz_RejectsDuplicateQuestionAnswer(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 1)

	answers := []Answer{
		{QuestionID: q.Questions[0].ID, ChoiceID: &q.Questions[0].Choices[0].ID},
		{QuestionID: q.Questions[0].ID, ChoiceID: &q.Questions[0].Choices[1].ID},
	}
	_, err := svc.SubmitQuiz(q.ID, 42, answers)
	assert.ErrorIs(t, err, ErrDuplicateResponse)

	// Nothing was persisted for the rejected attempt.
	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitQuiz_RejectsForeignQuestionAndChoice(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 1)

	_, err := svc.SubmitQuiz(q.ID, 42, []Answer{
		{QuestionID: 9999, ChoiceID: &q.Questions[0].Choices[0].ID},
	})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Choice belongs to the other question.
	_, err = svc.SubmitQuiz(q.ID, 42, []Answer{
		{QuestionID: q.Questions[0].ID, ChoiceID: &q.Questions[1].Choices[0].ID},
	})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestResponses_OnePerQuestionPerAttempt(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	q := seedQuiz(t, db, 1)

	sub := models.NewQuizSubmission(q.ID, 42, q.CreatedAt)
	require.NoError(t, repo.CreateAttempt(sub, q.AttemptsAllowed))

	choice := q.Questions[0].Choices[0].ID
	first := &models.QuizResponse{SubmissionID: sub.ID, QuestionID: q.Questions[0].ID, SelectedChoiceID: &choice}
	require.NoError(t, db.Create(first).Error)

	// The unique (submission, question) index holds even for writes that
	// bypass the service's validation.
	dup := &models.QuizResponse{SubmissionID: sub.ID, QuestionID: q.Questions[0].ID, SelectedChoiceID: &choice}
	assert.ErrorIs(t, db.Create(dup).Error, gorm.ErrDuplicatedKey)
}

func TestCreateAttempt_ConflictIsNotExhaustion(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	q := seedQuiz(t, db, 2)

	// Force a duplicate-key failure inside the attempt transaction while
	// attempts clearly remain.
	choice := q.Questions[0].Choices[0].ID
	sub := models.NewQuizSubmission(q.ID, 42, q.CreatedAt)
	sub.Responses = []models.QuizResponse{
		{QuestionID: q.Questions[0].ID, SelectedChoiceID: &choice},
		{QuestionID: q.Questions[0].ID, SelectedChoiceID: &choice},
	}

	err := repo.CreateAttempt(sub, 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAttemptsExhausted)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The failed attempt consumed nothing; a clean one still goes through.
	clean := models.NewQuizSubmission(q.ID, 42, q.CreatedAt)
	require.NoError(t, repo.CreateAttempt(clean, 2))
	assert.Equal(t, uint(1), clean.AttemptNumber)
}

func TestCreateAttempt_NumbersAfterHighestAttempt(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	q := seedQuiz(t, db, 3)

	prior := models.NewQuizSubmission(q.ID, 42, q.CreatedAt)
	prior.AttemptNumber = 2
	require.NoError(t, db.Create(prior).Error)

	sub := models.NewQuizSubmission(q.ID, 42, q.CreatedAt)
	require.NoError(t, repo.CreateAttempt(sub, 3))
	assert.Equal(t, uint(3), sub.AttemptNumber)
}

func TestGetSubmissionReport_RecomputesScore(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	q := seedQuiz(t, db, 1)

	submitted, err := svc.SubmitQuiz(q.ID, 42, correctAndWrongAnswers(q))
	require.NoError(t, err)

	report, err := svc.GetSubmissionReport(submitted.Submission.ID)
	require.NoError(t, err)

	assert.True(t, report.Achieved.Equal(submitted.Achieved))
	assert.True(t, report.Max.Equal(submitted.Max))
	require.NotNil(t, report.StoredScore)
	assert.True(t, report.StoredScore.Equal(report.Achieved))
	assert.True(t, report.Passed)
}
