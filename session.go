package analyst

import (
	"context"
	"strings"
	"sync"

	"github.com/kiltia/analyst/extract"

	"go.uber.org/zap"
)

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type Message struct {
	Role Role
	Text string
}

// Session holds the state of one chat about one report. It is safe to use
// from the UI goroutine and a request goroutine at the same time.
type Session struct {
	generator Generator
	prompts   *PromptBuilder
	maxChars  int

	mu         sync.Mutex
	history    []Message
	processing bool
	reportText string
	fileName   string
	truncated  bool
}

func NewSession(generator Generator, prompts *PromptBuilder, maxChars int) *Session {
	if prompts == nil {
		prompts = NewPromptBuilder()
	}
	if maxChars <= 0 {
		maxChars = extract.DefaultMaxChars
	}
	return &Session{
		generator: generator,
		prompts:   prompts,
		maxChars:  maxChars,
	}
}

// LoadFile replaces the loaded report with the file at path. On failure the
// session is left without a report.
func (s *Session) LoadFile(path string) (extract.Document, error) {
	s.reset()
	doc, err := extract.File(path, s.maxChars)
	if err != nil {
		return extract.Document{}, err
	}
	s.LoadDocument(doc)
	return doc, nil
}

func (s *Session) LoadDocument(doc extract.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportText = doc.Text
	s.fileName = doc.Name
	s.truncated = doc.Truncated
	if doc.Truncated {
		zap.S().Warnw(
			"file content is too large, only the beginning will be analyzed",
			"file", doc.Name,
			"max_chars", s.maxChars,
		)
	}
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportText = ""
	s.fileName = ""
	s.truncated = false
}

func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

func (s *Session) ReportText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportText
}

func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Message, len(s.history))
	copy(history, s.history)
	return history
}

// CanSubmit reports whether a question can be sent right now.
func (s *Session) CanSubmit(question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportText != "" && strings.TrimSpace(question) != "" && !s.processing
}

// Ask sends a question about the loaded report and records the exchange in
// the history once an answer is received.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)

	s.mu.Lock()
	if question == "" || s.reportText == "" {
		s.mu.Unlock()
		return "", ErrNothingToAsk
	}
	if s.processing {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.processing = true
	fileName, report := s.fileName, s.reportText
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	prompt, err := s.prompts.Build(fileName, question, report)
	if err != nil {
		return "", err
	}
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		zap.S().Errorw("API request failed", "error", err)
		return "", err
	}

	s.mu.Lock()
	s.history = append(
		s.history,
		Message{Role: RoleUser, Text: question},
		Message{Role: RoleAI, Text: answer},
	)
	s.mu.Unlock()
	return answer, nil
}
