package course

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"campus-lms/internal/models"
	"campus-lms/pkg/cache"
)

var (
	ErrCapacityReached = errors.New("course run is full")
	ErrNoRun           = errors.New("course has no offering to enroll into")
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
}

func NewService(repo *Repository, cache *cache.RedisCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListPublished serves the published-course catalogue, read-through against
// Redis keyed by institution (0 = all institutions).
func (s *Service) ListPublished(institutionID *uint) ([]models.Course, error) {
	var key uint
	if institutionID != nil {
		key = *institutionID
	}

	if s.cache != nil {
		if courses, err := s.cache.GetCourseCatalogue(key); err == nil {
			return courses, nil
		}
	}

	courses, err := s.repo.ListPublishedCourses(institutionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCourseCatalogue(key, courses); err != nil {
			log.Printf("Error caching course catalogue: %v", err)
		}
	}
	return courses, nil
}

func (s *Service) GetCourse(id uint) (*models.Course, error) {
	return s.repo.GetCourseByID(id)
}

func (s *Service) GetModule(id uint) (*models.Module, error) {
	return s.repo.GetModuleByID(id)
}

func (s *Service) GetLesson(id uint) (*models.Lesson, error) {
	return s.repo.GetLessonByID(id)
}

// Enroll places the student into the course's first offering, idempotently.
// Re-enrolling returns the existing enrollment. Capacity is only checked for
// new enrollments, so an already-enrolled student is never bounced by a full
// run.
func (s *Service) Enroll(courseID, studentID uint) (*models.Enrollment, bool, error) {
	course, err := s.repo.GetCourseByID(courseID)
	if err != nil {
		return nil, false, err
	}

	run, err := s.repo.FirstRunForCourse(course.ID)
	if err != nil {
		return nil, false, ErrNoRun
	}

	if run.Capacity > 0 {
		enrolled, err := s.repo.CountActiveEnrollments(run.ID)
		if err != nil {
			return nil, false, err
		}
		if enrolled >= int64(run.Capacity) {
			// Idempotence still holds for a full run: an already-enrolled
			// student gets their row back, only new enrollments are bounced.
			if existing, err := s.repo.FindEnrollment(run.ID, studentID); err == nil {
				return existing, false, nil
			}
			return nil, false, ErrCapacityReached
		}
	}

	enrollment := models.Enrollment{
		InstitutionID: course.InstitutionID,
		CourseRunID:   run.ID,
		StudentID:     studentID,
	}
	created, err := s.repo.GetOrCreateEnrollment(&enrollment)
	if err != nil {
		return nil, false, err
	}
	return &enrollment, created, nil
}

type DashboardSummary struct {
	EnrolledCourses    int64 `json:"enrolled_courses"`
	PendingSubmissions int64 `json:"pending_submissions"`
	PendingQuizzes     int64 `json:"pending_quizzes"`
}

func (s *Service) Dashboard(studentID uint) (*DashboardSummary, error) {
	enrolled, err := s.repo.CountActiveEnrollmentsForStudent(studentID)
	if err != nil {
		return nil, err
	}
	pendingSubs, err := s.repo.CountPendingSubmissions(studentID)
	if err != nil {
		return nil, err
	}
	pendingQuizzes, err := s.repo.CountUnattemptedQuizzes(studentID)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		EnrolledCourses:    enrolled,
		PendingSubmissions: pendingSubs,
		PendingQuizzes:     pendingQuizzes,
	}, nil
}

func (s *Service) RecordAttendance(courseRunID, studentID uint, date time.Time, status string) (*models.Attendance, error) {
	att := &models.Attendance{
		CourseRunID: courseRunID,
		StudentID:   studentID,
		Date:        date,
		Status:      status,
	}
	if err := s.repo.RecordAttendance(att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *Service) AttendanceForRun(courseRunID uint, date *time.Time) ([]models.Attendance, error) {
	return s.repo.AttendanceForRun(courseRunID, date)
}

// RecalculateRunGrades rebuilds the Grade summary row for every enrollment in
// the run from that student's scored submissions.
func (s *Service) RecalculateRunGrades(courseRunID uint) ([]models.Grade, error) {
	enrollments, err := s.repo.EnrollmentsForRun(courseRunID)
	if err != nil {
		return nil, err
	}
	scored, err := s.repo.ScoredSubmissionsForRun(courseRunID)
	if err != nil {
		return nil, err
	}

	type tally struct{ achieved, possible decimal.Decimal }
	totals := make(map[uint]*tally)
	for _, row := range scored {
		t, ok := totals[row.StudentID]
		if !ok {
			t = &tally{achieved: decimal.Zero, possible: decimal.Zero}
			totals[row.StudentID] = t
		}
		t.achieved = t.achieved.Add(row.Score)
		t.possible = t.possible.Add(row.MaxPoints)
	}

	now := time.Now()
	grades := make([]models.Grade, 0, len(enrollments))
	for _, enrollment := range enrollments {
		total, percent := decimal.Zero, decimal.Zero
		if t, ok := totals[enrollment.StudentID]; ok {
			total = t.achieved
			if t.possible.Sign() > 0 {
				percent = t.achieved.Mul(decimal.NewFromInt(100)).Div(t.possible)
			}
		}

		grade := models.Grade{
			EnrollmentID: enrollment.ID,
			TotalScore:   total,
			LetterGrade:  LetterGrade(percent),
			CalculatedAt: now,
		}
		if err := s.repo.UpsertGrade(&grade); err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}

	log.Printf("Recalculated %d grade summaries for run %d", len(grades), courseRunID)
	return grades, nil
}

func (s *Service) GradeForEnrollment(enrollmentID uint) (*models.Grade, error) {
	return s.repo.GradeForEnrollment(enrollmentID)
}

// LetterGrade maps a percentage to the institution's letter bands.
func LetterGrade(percent decimal.Decimal) string {
	switch {
	case percent.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return "A"
	case percent.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return "B"
	case percent.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return "C"
	case percent.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return "D"
	default:
		return "F"
	}
}
