package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionConstructors(t *testing.T) {
	now := time.Now()

	quizSub := NewQuizSubmission(3, 42, now)
	require.NotNil(t, quizSub.QuizID)
	assert.Equal(t, SubmissionKindQuiz, quizSub.Kind)
	assert.Nil(t, quizSub.AssignmentID)
	assert.NoError(t, quizSub.BeforeCreate(nil))

	assignSub := NewAssignmentSubmission(5, 42, "essay", now)
	require.NotNil(t, assignSub.AssignmentID)
	assert.Equal(t, SubmissionKindAssignment, assignSub.Kind)
	assert.Nil(t, assignSub.QuizID)
	assert.NoError(t, assignSub.BeforeCreate(nil))
}

func TestSubmissionTargetInvariant(t *testing.T) {
	quizID, assignmentID := uint(3), uint(5)

	cases := []struct {
		name string
		sub  Submission
	}{
		{"no kind", Submission{QuizID: &quizID}},
		{"quiz kind without quiz", Submission{Kind: SubmissionKindQuiz}},
		{"assignment kind without assignment", Submission{Kind: SubmissionKindAssignment}},
		{"both targets", Submission{Kind: SubmissionKindQuiz, QuizID: &quizID, AssignmentID: &assignmentID}},
		{"kind mismatch", Submission{Kind: SubmissionKindAssignment, QuizID: &quizID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.sub.BeforeCreate(nil), ErrSubmissionTarget)
		})
	}
}
