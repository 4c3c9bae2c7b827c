package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "mcq"
	QuestionTrueFalse      = "tf"
	QuestionShortAnswer    = "short"
	QuestionNumeric        = "numeric"
)

type Assignment struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
	ContentID          uint            `json:"content_id" gorm:"uniqueIndex"`
	Instructions       string          `json:"instructions"`
	DueAt              *time.Time      `json:"due_at"`
	MaxPoints          decimal.Decimal `json:"max_points" gorm:"type:numeric(6,2);default:100"`
	AllowLate          bool            `json:"allow_late" gorm:"default:false"`
	LatePenaltyPercent decimal.Decimal `json:"late_penalty_percent" gorm:"type:numeric(5,2);default:0"`
}

type Quiz struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
	ContentID        uint            `json:"content_id" gorm:"uniqueIndex"`
	TimeLimitMinutes *uint           `json:"time_limit_minutes"`
	AttemptsAllowed  uint            `json:"attempts_allowed" gorm:"default:1"`
	ShuffleQuestions bool            `json:"shuffle_questions" gorm:"default:true"`
	ShuffleChoices   bool            `json:"shuffle_choices" gorm:"default:true"`
	PassMarkPercent  decimal.Decimal `json:"pass_mark_percent" gorm:"type:numeric(5,2);default:50"`
	Questions        []Question      `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
	QuizID    uint            `json:"quiz_id"`
	Text      string          `json:"text" gorm:"not null"`
	Type      string          `json:"type" gorm:"default:mcq"`
	Points    decimal.Decimal `json:"points" gorm:"type:numeric(6,2);default:1"`
	Order     uint            `json:"order" gorm:"column:sort_order;default:0"`
	Choices   []Choice        `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
}

// IsChoiceBased reports whether the question is answered by selecting a
// stored Choice, i.e. whether it can be auto-graded.
func (q *Question) IsChoiceBased() bool {
	return q.Type == QuestionMultipleChoice || q.Type == QuestionTrueFalse
}

type Choice struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	QuestionID uint           `json:"question_id"`
	Text       string         `json:"text" gorm:"not null"`
	IsCorrect  bool           `json:"is_correct" gorm:"default:false"`
}
