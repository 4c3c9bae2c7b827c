package announcement

import (
	"errors"
	"fmt"
	"log"

	"campus-lms/internal/models"
	"campus-lms/pkg/websocket"
)

var (
	ErrNoInstitution = errors.New("user does not belong to an institution")
	ErrForbidden     = errors.New("user may not post announcements")
)

type Service struct {
	repo  *Repository
	wsHub *websocket.Hub
}

func NewService(repo *Repository, wsHub *websocket.Hub) *Service {
	return &Service{repo: repo, wsHub: wsHub}
}

// ListForUser serves the bulletin board of the user's institution.
func (s *Service) ListForUser(userID uint) ([]models.Announcement, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.InstitutionID == nil {
		return nil, ErrNoInstitution
	}
	return s.repo.ListForInstitution(*user.InstitutionID)
}

// Post publishes an announcement within the author's institution and pushes
// it to connected clients: the run's room when the announcement is scoped to
// a course run, the institution-wide "all" room otherwise.
func (s *Service) Post(authorID uint, title, message string, courseRunID *uint) (*models.Announcement, error) {
	author, err := s.repo.GetUserByID(authorID)
	if err != nil {
		return nil, err
	}
	// The token's role claim was already checked; the stored role is the
	// fresher source and wins if they disagree.
	if !author.CanGrade() {
		return nil, ErrForbidden
	}
	if author.InstitutionID == nil {
		return nil, ErrNoInstitution
	}

	a := &models.Announcement{
		InstitutionID: *author.InstitutionID,
		CourseRunID:   courseRunID,
		Title:         title,
		Message:       message,
		CreatedByID:   &author.ID,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		room := "all"
		if courseRunID != nil {
			room = fmt.Sprintf("%d", *courseRunID)
		}
		s.wsHub.Broadcast(room, "announcement", a)
	}

	log.Printf("Posted announcement %d by user %d", a.ID, authorID)
	return a, nil
}

// PostDiscussion adds a thread message under a course run. Unlike
// announcements, any enrolled user may write here.
func (s *Service) PostDiscussion(userID, courseRunID uint, lessonID *uint, content string) (*models.Discussion, error) {
	if _, err := s.repo.GetUserByID(userID); err != nil {
		return nil, err
	}

	d := &models.Discussion{
		CourseRunID: courseRunID,
		LessonID:    lessonID,
		UserID:      userID,
		Content:     content,
	}
	if err := s.repo.CreateDiscussion(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDiscussions(courseRunID uint) ([]models.Discussion, error) {
	return s.repo.ListDiscussionsForRun(courseRunID)
}
