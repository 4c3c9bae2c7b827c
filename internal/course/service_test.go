package course

import (
	"fmt"
	"testing"
	"time"

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
		&models.Course{},
		&models.CourseRun{},
		&models.Enrollment{},
		&models.Module{},
		&models.Lesson{},
		&models.Content{},
		&models.Assignment{},
		&models.Quiz{},
		&models.Question{},
		&models.Submission{},
		&models.QuizResponse{},
		&models.Attendance{},
		&models.Grade{},
	))
	return db
}

func seedCourseWithRun(t *testing.T, db *gorm.DB, capacity uint) *models.Course {
	t.Helper()

	c := &models.Course{
		InstitutionID: 1,
		Code:          "CS101",
		Title:         "Intro to Computing",
		IsPublished:   true,
		Credits:       decimal.NewFromInt(3),
		Runs: []models.CourseRun{
			{InstitutionID: 1, TermID: 1, Name: "Main", Capacity: capacity},
		},
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestEnroll_Idempotent(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	c := seedCourseWithRun(t, db, 0)

	first, created, err := svc.Enroll(c.ID, 42)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.Enroll(c.ID, 42)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("course_run_id = ? AND student_id = ?", c.Runs[0].ID, 42).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnroll_CapacityReached(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	c := seedCourseWithRun(t, db, 1)

	_, _, err := svc.Enroll(c.ID, 42)
	require.NoError(t, err)

	_, _, err = svc.Enroll(c.ID, 43)
	assert.ErrorIs(t, err, ErrCapacityReached)

	// Re-enrolling the admitted student still works on a full run.
	enrollment, created, err := svc.Enroll(c.ID, 42)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(42), enrollment.StudentID)
}

func TestEnroll_NoRun(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)

	c := &models.Course{InstitutionID: 1, Code: "CS102", Title: "No offering", IsPublished: true}
	require.NoError(t, db.Create(c).Error)

	_, _, err := svc.Enroll(c.ID, 42)
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestLetterGrade_Bands(t *testing.T) {
	cases := []struct {
		percent int64
		want    string
	}{
		{95, "A"}, {80, "A"}, {79, "B"}, {70, "B"},
		{69, "C"}, {60, "C"}, {59, "D"}, {50, "D"},
		{49, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LetterGrade(decimal.NewFromInt(tc.percent)), "percent %d", tc.percent)
	}
}

func TestRecordAttendance_AmendsSameDay(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	c := seedCourseWithRun(t, db, 0)
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordAttendance(c.Runs[0].ID, 42, day, models.AttendanceAbsent)
	require.NoError(t, err)

	// Correcting the same day replaces the status instead of adding a row.
	_, err = svc.RecordAttendance(c.Runs[0].ID, 42, day, models.AttendanceLate)
	require.NoError(t, err)

	records, err := svc.AttendanceForRun(c.Runs[0].ID, &day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceLate, records[0].Status)
}

func TestRecalculateRunGrades(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	c := seedCourseWithRun(t, db, 0)
	run := c.Runs[0]

	// One assignment worth 100 points inside the run's content tree.
	module := &models.Module{CourseRunID: run.ID, Title: "Week 1"}
	require.NoError(t, db.Create(module).Error)
	lesson := &models.Lesson{ModuleID: module.ID, Title: "Basics", IsPublished: true}
	require.NoError(t, db.Create(lesson).Error)
	content := &models.Content{LessonID: lesson.ID, Type: models.ContentAssignment, Title: "Essay"}
	require.NoError(t, db.Create(content).Error)
	assignment := &models.Assignment{ContentID: content.ID, MaxPoints: decimal.NewFromInt(100)}
	require.NoError(t, db.Create(assignment).Error)

	enrollment := models.Enrollment{CourseRunID: run.ID, StudentID: 42}
	_, err := NewRepository(db).GetOrCreateEnrollment(&enrollment)
	require.NoError(t, err)

	score := decimal.NewFromInt(75)
	sub := models.NewAssignmentSubmission(assignment.ID, 42, "essay", time.Now())
	sub.Score = &score
	sub.GradingStatus = models.GradingStatusManual
	require.NoError(t, db.Create(sub).Error)

	grades, err := svc.RecalculateRunGrades(run.ID)
	require.NoError(t, err)
	require.Len(t, grades, 1)

	assert.Equal(t, enrollment.ID, grades[0].EnrollmentID)
	assert.True(t, grades[0].TotalScore.Equal(decimal.NewFromInt(75)), "total = %s", grades[0].TotalScore)
	assert.Equal(t, "B", grades[0].LetterGrade)

	// Recalculating again updates the same summary row.
	_, err = svc.RecalculateRunGrades(run.ID)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.Grade{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	stored, err := svc.GradeForEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.LetterGrade)
}

func TestDashboard_Counts(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), nil)
	c := seedCourseWithRun(t, db, 0)

	_, _, err := svc.Enroll(c.ID, 42)
	require.NoError(t, err)

	// One ungraded assignment submission and one quiz the student never took.
	require.NoError(t, db.Create(&models.Quiz{ContentID: 10, AttemptsAllowed: 1}).Error)
	sub := models.NewAssignmentSubmission(1, 42, "pending", time.Now())
	require.NoError(t, db.Create(sub).Error)

	summary, err := svc.Dashboard(42)
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.EnrolledCourses)
	assert.EqualValues(t, 1, summary.PendingSubmissions)
	assert.EqualValues(t, 1, summary.PendingQuizzes)
}
