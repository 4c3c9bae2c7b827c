package models

// QuestionDTO is the student-facing view of a question. Correct choices are
// only exposed to graders.
type QuestionDTO struct {
	ID      uint        `json:"id"`
	Text    string      `json:"text"`
	Type    string      `json:"type"`
	Points  string      `json:"points"`
	Order   uint        `json:"order"`
	Choices []ChoiceDTO `json:"choices,omitempty"`
}

type ChoiceDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"` // only for graders
}

func (q Question) ToDTO(includeCorrect bool) QuestionDTO {
	choices := make([]ChoiceDTO, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = ChoiceDTO{ID: c.ID, Text: c.Text}
		if includeCorrect {
			correct := c.IsCorrect
			choices[i].IsCorrect = &correct
		}
	}
	return QuestionDTO{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Points:  q.Points.String(),
		Order:   q.Order,
		Choices: choices,
	}
}

// QuizDTO wraps a quiz with its questions rendered for one audience.
type QuizDTO struct {
	ID               uint          `json:"id"`
	ContentID        uint          `json:"content_id"`
	TimeLimitMinutes *uint         `json:"time_limit_minutes"`
	AttemptsAllowed  uint          `json:"attempts_allowed"`
	ShuffleQuestions bool          `json:"shuffle_questions"`
	ShuffleChoices   bool          `json:"shuffle_choices"`
	PassMarkPercent  string        `json:"pass_mark_percent"`
	Questions        []QuestionDTO `json:"questions"`
}

func (q Quiz) ToDTO(includeCorrect bool) QuizDTO {
	questions := make([]QuestionDTO, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.ToDTO(includeCorrect)
	}
	return QuizDTO{
		ID:               q.ID,
		ContentID:        q.ContentID,
		TimeLimitMinutes: q.TimeLimitMinutes,
		AttemptsAllowed:  q.AttemptsAllowed,
		ShuffleQuestions: q.ShuffleQuestions,
		ShuffleChoices:   q.ShuffleChoices,
		PassMarkPercent:  q.PassMarkPercent.String(),
		Questions:        questions,
	}
}
