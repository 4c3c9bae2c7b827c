package course

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"campus-lms/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListPublishedCourses(institutionID *uint) ([]models.Course, error) {
	var courses []models.Course
	q := r.db.Where("is_published = ?", true).Order("code")
	if institutionID != nil {
		q = q.Where("institution_id = ?", *institutionID)
	}
	if err := q.Find(&courses).Error; err != nil {
		log.Printf("Error listing published courses: %v", err)
		return nil, err
	}
	return courses, nil
}

func (r *Repository) GetCourseByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.
		Preload("Runs").
		Preload("Runs.Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		First(&course, id).Error
	if err != nil {
		log.Printf("Error getting course %d: %v", id, err)
		return nil, err
	}
	return &course, nil
}

func (r *Repository) GetModuleByID(id uint) (*models.Module, error) {
	var module models.Module
	err := r.db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *Repository) GetLessonByID(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.
		Preload("Contents", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_visible = ?", true).Order("sort_order, id")
		}).
		First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *Repository) FirstRunForCourse(courseID uint) (*models.CourseRun, error) {
	var run models.CourseRun
	err := r.db.Where("course_id = ?", courseID).Order("id").First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *Repository) CountActiveEnrollments(courseRunID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("course_run_id = ? AND is_active = ?", courseRunID, true).
		Count(&count).Error
	return count, err
}

// GetOrCreateEnrollment enrolls idempotently: a second enroll for the same
// (run, student) returns the existing row. The unique (run, student) index
// backstops the lookup under concurrent requests.
func (r *Repository) GetOrCreateEnrollment(enrollment *models.Enrollment) (created bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Enrollment
		lookupErr := tx.Where("course_run_id = ? AND student_id = ?", enrollment.CourseRunID, enrollment.StudentID).
			First(&existing).Error
		if lookupErr == nil {
			*enrollment = existing
			return nil
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return lookupErr
		}

		created = true
		return tx.Create(enrollment).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to a concurrent enroll; serve the winner's row.
		created = false
		var existing models.Enrollment
		if lookupErr := r.db.Where("course_run_id = ? AND student_id = ?", enrollment.CourseRunID, enrollment.StudentID).
			First(&existing).Error; lookupErr == nil {
			*enrollment = existing
			return false, nil
		}
		return false, err
	}
	return created, err
}

func (r *Repository) FindEnrollment(courseRunID, studentID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Where("course_run_id = ? AND student_id = ?", courseRunID, studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *Repository) EnrollmentsForRun(courseRunID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.Where("course_run_id = ?", courseRunID).Find(&enrollments).Error
	return enrollments, err
}

// Dashboard counters.

func (r *Repository) CountActiveEnrollmentsForStudent(studentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("student_id = ? AND is_active = ?", studentID, true).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountPendingSubmissions(studentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("student_id = ? AND score IS NULL", studentID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountUnattemptedQuizzes(studentID uint) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(*)
		FROM quizzes q
		WHERE q.deleted_at IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM submissions s
			WHERE s.quiz_id = q.id AND s.student_id = ?
		  )
	`, studentID).Scan(&count).Error
	return count, err
}

// Attendance.

func (r *Repository) RecordAttendance(att *models.Attendance) error {
	err := r.db.Create(att).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Same (run, student, date): amend the recorded status instead.
		return r.db.Model(&models.Attendance{}).
			Where("course_run_id = ? AND student_id = ? AND date = ?", att.CourseRunID, att.StudentID, att.Date).
			Update("status", att.Status).Error
	}
	return err
}

func (r *Repository) AttendanceForRun(courseRunID uint, date *time.Time) ([]models.Attendance, error) {
	var records []models.Attendance
	q := r.db.Where("course_run_id = ?", courseRunID).Order("date, student_id")
	if date != nil {
		q = q.Where("date = ?", *date)
	}
	err := q.Find(&records).Error
	return records, err
}

// Grade summaries.

type scoredSubmission struct {
	StudentID uint
	Score     decimal.Decimal
	MaxPoints decimal.Decimal
}

// ScoredSubmissionsForRun returns every graded submission in the run together
// with the points it was marked out of: the assignment's max_points, or the
// sum of the quiz's question points.
func (r *Repository) ScoredSubmissionsForRun(courseRunID uint) ([]scoredSubmission, error) {
	var rows []scoredSubmission
	err := r.db.Raw(`
		SELECT s.student_id,
		       s.score,
		       COALESCE(a.max_points, qp.max_points, 0) AS max_points
		FROM submissions s
		LEFT JOIN assignments a ON s.assignment_id = a.id
		LEFT JOIN quizzes q ON s.quiz_id = q.id
		LEFT JOIN (
			SELECT quiz_id, SUM(points) AS max_points
			FROM questions
			WHERE deleted_at IS NULL
			GROUP BY quiz_id
		) qp ON qp.quiz_id = q.id
		JOIN contents c ON c.id = COALESCE(a.content_id, q.content_id)
		JOIN lessons l ON l.id = c.lesson_id
		JOIN modules m ON m.id = l.module_id
		WHERE m.course_run_id = ? AND s.score IS NOT NULL
	`, courseRunID).Scan(&rows).Error
	if err != nil {
		log.Printf("Error collecting scored submissions for run %d: %v", courseRunID, err)
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpsertGrade(grade *models.Grade) error {
	var existing models.Grade
	err := r.db.Where("enrollment_id = ?", grade.EnrollmentID).First(&existing).Error
	if err == nil {
		grade.ID = existing.ID
		grade.CreatedAt = existing.CreatedAt
		return r.db.Save(grade).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(grade).Error
}

func (r *Repository) GradeForEnrollment(enrollmentID uint) (*models.Grade, error) {
	var grade models.Grade
	if err := r.db.Where("enrollment_id = ?", enrollmentID).First(&grade).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}
