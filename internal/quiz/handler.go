package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

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

type SubmitRequest struct {
	Answers []Answer `json:"answers" validate:"required,min=1,dive"`
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.GetQuiz(quizID)
	if err != nil {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}

	// Correct choices are only rendered for graders.
	json.NewEncoder(w).Encode(quiz.ToDTO(auth.IsGrader(r)))
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.SubmitQuiz(quizID, userID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			http.Error(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, ErrAttemptsExhausted):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrInvalidAnswer), errors.Is(err, ErrDuplicateResponse):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error submitting quiz %d: %v", quizID, err)
			http.Error(w, "Submission failed", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}

func (h *Handler) GetSubmissionReport(w http.ResponseWriter, r *http.Request) {
	submissionID, ok := pathID(r, "submissionId")
	if !ok {
		http.Error(w, "Invalid submission ID", http.StatusBadRequest)
		return
	}

	report, err := h.service.GetSubmissionReport(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		// ErrInvalidSubmissionKind lands here: a caller defect, logged and
		// treated as a server error, never rendered as a user message.
		log.Printf("Error building report for submission %d: %v", submissionID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(report)
}

func (h *Handler) GetMyAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid quiz ID", http.StatusBadRequest)
		return
	}

	subs, err := h.service.AttemptsForStudent(quizID, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(subs)
}

func pathID(r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
