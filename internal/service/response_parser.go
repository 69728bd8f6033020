package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/metrics"

	"go.uber.org/zap"
)

// maxRepairAttempts bounds the closing-bracket repair of a truncated array.
const maxRepairAttempts = 1

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
)

// ResponseParser turns raw model text into question records.
type ResponseParser struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewResponseParser(logger *zap.Logger, m *metrics.Metrics) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{logger: logger, metrics: m}
}

// Parse strips wrapping artifacts and decodes a JSON array of question objects.
// A truncated array gets one closing bracket appended; anything else that does not decode
// is a parse error carrying the raw text.
func (p *ResponseParser) Parse(raw string) ([]domain.RawQuestion, error) {
	text := cleanResponse(raw)

	var lastErr error
	for attempt := 0; attempt <= maxRepairAttempts; attempt++ {
		records, err := decodeRecords(text)
		if err == nil {
			if attempt > 0 {
				p.metrics.ParseRepair()
				p.logger.Warn("Accepted upstream payload after bracket repair",
					zap.Int("attempts", attempt),
					zap.String("raw_response", raw))
			}
			return records, nil
		}
		lastErr = err

		if !needsClosingBracket(text) {
			break
		}
		text += "]"
	}

	p.logger.Error("Failed to parse upstream response", zap.Error(lastErr), zap.String("raw_response", raw))
	return nil, domain.NewParseError(raw, lastErr)
}

// cleanResponse removes a leading reasoning block, code fences and surrounding whitespace.
// Think tags inside the payload belong to the questions and are kept.
func cleanResponse(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "<think>") {
		if thinkEnd := strings.Index(text, "</think>"); thinkEnd != -1 {
			text = strings.TrimSpace(text[thinkEnd+len("</think>"):])
		}
	}

	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.TrimSpace(text)
}

func needsClosingBracket(text string) bool {
	return strings.Contains(text, "[") && !strings.HasSuffix(text, "]")
}

func decodeRecords(text string) ([]domain.RawQuestion, error) {
	if !strings.HasPrefix(text, "[") {
		return nil, fmt.Errorf("expected a JSON array")
	}
	var records []domain.RawQuestion
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, err
	}
	return records, nil
}
