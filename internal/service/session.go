package service

import (
	"fmt"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"
)

// GenerationSession holds the current question list and the parameters of the last run.
// It is not safe for concurrent use; the GenerationController serializes access.
type GenerationSession struct {
	questions  []*domain.Question
	lastInputs *domain.GenerationInputs
	language   string
	lastError  string
}

// NewGenerationSession returns an empty session.
func NewGenerationSession() *GenerationSession {
	return &GenerationSession{}
}

// SessionSnapshot is a copy of the session state safe to hand to other goroutines.
type SessionSnapshot struct {
	Questions []*domain.Question `json:"questions"`
	Language  string             `json:"language,omitempty"`
	LastError string             `json:"last_error,omitempty"`
}

func (s *GenerationSession) snapshot() SessionSnapshot {
	return SessionSnapshot{
		Questions: domain.CloneQuestions(s.questions),
		Language:  s.language,
		LastError: s.lastError,
	}
}

func (s *GenerationSession) commit(questions []*domain.Question, language string) {
	s.questions = questions
	s.language = language
	s.lastError = ""
}

func (s *GenerationSession) fail(message string) {
	s.lastError = message
}

func (s *GenerationSession) remember(in domain.GenerationInputs) {
	c := in
	c.Images = append([]domain.ImageInput(nil), in.Images...)
	s.lastInputs = &c
}

func (s *GenerationSession) reset() {
	s.questions = nil
	s.lastInputs = nil
	s.language = ""
	s.lastError = ""
}

func (s *GenerationSession) indexOf(id string) (int, error) {
	for i, q := range s.questions {
		if q.ID == id {
			return i, nil
		}
	}
	return -1, domain.NewNotFoundError(fmt.Sprintf("question %s not found", id))
}

// QuestionPatch carries the editable fields of a question. Nil fields are left untouched.
type QuestionPatch struct {
	Text             *string
	Options          []string
	CorrectIndices   []int
	Explanation      *string
	DesignConcept    *string
	TimeLimitSeconds *int
}

func (s *GenerationSession) update(id string, patch QuestionPatch) (*domain.Question, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	q := s.questions[i].Clone()
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Options != nil {
		q.Options = append([]string(nil), patch.Options...)
	}
	if patch.CorrectIndices != nil {
		q.CorrectIndices = append([]int(nil), patch.CorrectIndices...)
	}
	if patch.Explanation != nil {
		q.Explanation = *patch.Explanation
	}
	if patch.DesignConcept != nil {
		q.DesignConcept = *patch.DesignConcept
	}
	if patch.TimeLimitSeconds != nil {
		if *patch.TimeLimitSeconds <= 0 {
			return nil, domain.NewValidationError("time limit must be greater than 0")
		}
		q.TimeLimitSeconds = *patch.TimeLimitSeconds
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.questions[i] = q
	return q.Clone(), nil
}

func (s *GenerationSession) remove(id string) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	s.questions = append(s.questions[:i], s.questions[i+1:]...)
	return nil
}

// duplicate inserts a copy with a fresh ID right after the original.
func (s *GenerationSession) duplicate(id string) (*domain.Question, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	c := s.questions[i].Clone()
	c.ID = util.NewULID()
	s.questions = append(s.questions, nil)
	copy(s.questions[i+2:], s.questions[i+1:])
	s.questions[i+1] = c
	return c.Clone(), nil
}

// move relocates a question to position to, clamped to the list bounds.
func (s *GenerationSession) move(id string, to int) error {
	i, err := s.indexOf(id)
	if err != nil {
		return err
	}
	if to < 0 {
		to = 0
	}
	if to >= len(s.questions) {
		to = len(s.questions) - 1
	}
	q := s.questions[i]
	s.questions = append(s.questions[:i], s.questions[i+1:]...)
	s.questions = append(s.questions, nil)
	copy(s.questions[to+1:], s.questions[to:])
	s.questions[to] = q
	return nil
}
