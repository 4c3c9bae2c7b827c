package course

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"campus-lms/internal/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	var institutionID *uint
	if raw := r.URL.Query().Get("institution"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			http.Error(w, "Invalid institution ID", http.StatusBadRequest)
			return
		}
		v := uint(id)
		institutionID = &v
	}

	courses, err := h.service.ListPublished(institutionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	course, err := h.service.GetCourse(id)
	if err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(course)
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	enrollment, created, err := h.service.Enroll(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Course not found", http.StatusNotFound)
		case errors.Is(err, ErrNoRun):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrCapacityReached):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Error enrolling user %d in course %d: %v", userID, id, err)
			http.Error(w, "Enrollment failed", http.StatusInternalServerError)
		}
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(enrollment)
}

func (h *Handler) GetModule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid module ID", http.StatusBadRequest)
		return
	}

	module, err := h.service.GetModule(id)
	if err != nil {
		http.Error(w, "Module not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(module)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid lesson ID", http.StatusBadRequest)
		return
	}

	lesson, err := h.service.GetLesson(id)
	if err != nil {
		http.Error(w, "Lesson not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(lesson)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.Dashboard(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(summary)
}

type AttendanceRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	runID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course run ID", http.StatusBadRequest)
		return
	}

	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	att, err := h.service.RecordAttendance(runID, req.StudentID, date, req.Status)
	if err != nil {
		log.Printf("Error recording attendance for run %d: %v", runID, err)
		http.Error(w, "Recording failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(att)
}

func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	runID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course run ID", http.StatusBadRequest)
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}
		date = &parsed
	}

	records, err := h.service.AttendanceForRun(runID, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(records)
}

func (h *Handler) RecalculateGrades(w http.ResponseWriter, r *http.Request) {
	if !auth.IsGrader(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	runID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid course run ID", http.StatusBadRequest)
		return
	}

	grades, err := h.service.RecalculateRunGrades(runID)
	if err != nil {
		log.Printf("Error recalculating grades for run %d: %v", runID, err)
		http.Error(w, "Recalculation failed", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(grades)
}

func (h *Handler) GetGrade(w http.ResponseWriter, r *http.Request) {
	enrollmentID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid enrollment ID", http.StatusBadRequest)
		return
	}

	grade, err := h.service.GradeForEnrollment(enrollmentID)
	if err != nil {
		http.Error(w, "Grade not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(grade)
}

func pathID(r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
