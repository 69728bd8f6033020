package renderer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/service"

	"go.uber.org/zap"
)

// LanguageResolver answers or abandons the pending language prompt.
type LanguageResolver interface {
	Resolve(promptID string, choice service.LanguageChoice) error
	Abandon() bool
}

// ConsoleRenderer writes controller callbacks to a terminal and reads language answers from in.
type ConsoleRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	in       io.Reader
	resolver LanguageResolver
	logger   *zap.Logger
}

func NewConsoleRenderer(out io.Writer, in io.Reader, logger *zap.Logger) *ConsoleRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleRenderer{out: out, in: in, logger: logger}
}

// SetResolver wires the gate that receives answers to language prompts.
func (c *ConsoleRenderer) SetResolver(resolver LanguageResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolver = resolver
}

func (c *ConsoleRenderer) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *ConsoleRenderer) ShowProgress(message string) {
	c.printf("... %s\n", message)
}

func (c *ConsoleRenderer) ShowLoading(requestID string) {
	c.printf("Generating questions (request %s)\n", requestID)
}

func (c *ConsoleRenderer) RenderQuestions(requestID string, questions []*domain.Question) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(questions) == 0 {
		fmt.Fprintln(c.out, "No questions.")
		return
	}
	fmt.Fprintf(c.out, "Generated %d questions\n", len(questions))
	for i, q := range questions {
		fmt.Fprintf(c.out, "%d. [%s] %s\n", i+1, q.Type, q.Text)
		for j, opt := range q.Options {
			mark := " "
			if containsIndex(q.CorrectIndices, j) {
				mark = "*"
			}
			fmt.Fprintf(c.out, "   %s %c) %s\n", mark, 'A'+rune(j), opt)
		}
	}
}

func (c *ConsoleRenderer) ShowError(requestID string, message string) {
	c.printf("Error: %s\n", message)
}

// PromptLanguage asks on the console and answers the gate from a background reader.
// Without an input the default language is kept.
func (c *ConsoleRenderer) PromptLanguage(prompt domain.LanguagePrompt) {
	c.mu.Lock()
	resolver := c.resolver
	fmt.Fprintf(c.out, "The source looks like it is not in %s:\n  %q\n", service.LanguageName(prompt.Default), prompt.Sample)
	if c.in == nil {
		fmt.Fprintf(c.out, "No interactive input, generating in %s\n", service.LanguageName(prompt.Default))
	} else {
		fmt.Fprintf(c.out, "Generate in [1] %s or [2] %s? ", service.LanguageName(prompt.Default), service.LanguageName(prompt.Alternate))
	}
	c.mu.Unlock()

	switch {
	case resolver == nil:
	case c.in == nil:
		if err := resolver.Resolve(prompt.ID, service.ChoiceDefault); err != nil {
			c.logger.Debug("Language prompt closed before the default was applied", zap.Error(err))
		}
	default:
		go c.readChoice(prompt.ID, resolver)
	}
}

// readChoice waits for an explicit answer. Anything else asks again, and end of input
// abandons the prompt.
func (c *ConsoleRenderer) readChoice(promptID string, resolver LanguageResolver) {
	reader := bufio.NewReader(c.in)
	for {
		line, err := reader.ReadString('\n')
		if choice, ok := parseChoice(line); ok {
			if err := resolver.Resolve(promptID, choice); err != nil {
				c.logger.Debug("Language choice arrived after the prompt closed", zap.String("prompt_id", promptID), zap.Error(err))
			}
			return
		}
		if err != nil {
			if err != io.EOF {
				c.logger.Warn("Failed to read language choice", zap.Error(err))
			}
			resolver.Abandon()
			return
		}
		c.printf("Please answer 1 or 2: ")
	}
}

func parseChoice(line string) (service.LanguageChoice, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "1", "default", "d":
		return service.ChoiceDefault, true
	case "2", "alternate", "a":
		return service.ChoiceAlternate, true
	}
	return "", false
}

func containsIndex(indices []int, i int) bool {
	for _, idx := range indices {
		if idx == i {
			return true
		}
	}
	return false
}

var _ domain.Renderer = (*ConsoleRenderer)(nil)
