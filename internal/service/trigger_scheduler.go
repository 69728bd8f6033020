package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"quiz-forge/internal/domain"

	"go.uber.org/zap"
)

// RunStarter starts a generation run without blocking.
type RunStarter interface {
	Start(in domain.GenerationInputs) (string, error)
}

// TriggerScheduler decides when a generation run starts: on explicit request in manual
// mode, or after a quiet period following input changes in auto mode.
type TriggerScheduler struct {
	mu       sync.Mutex
	starter  RunStarter
	prefs    domain.PreferenceStore
	debounce time.Duration
	auto     bool
	timer    *time.Timer
	// gen invalidates timer callbacks that already left the timer queue.
	gen     uint64
	stopped bool
	logger  *zap.Logger
}

// NewTriggerScheduler reads the auto_generate preference to pick the initial mode.
func NewTriggerScheduler(ctx context.Context, starter RunStarter, prefs domain.PreferenceStore, debounce time.Duration, logger *zap.Logger) *TriggerScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TriggerScheduler{
		starter:  starter,
		prefs:    prefs,
		debounce: debounce,
		logger:   logger,
	}
	if prefs != nil {
		v, err := prefs.Get(ctx, domain.PrefAutoGenerate)
		switch {
		case err == nil:
			auto, perr := strconv.ParseBool(v)
			if perr != nil {
				logger.Warn("Ignoring malformed auto_generate preference", zap.String("value", v))
			}
			s.auto = auto
		case !errors.Is(err, domain.ErrPreferenceNotSet):
			logger.Warn("Failed to read auto_generate preference, using manual mode", zap.Error(err))
		}
	}
	return s
}

// InputChanged records a change to a tracked input. In auto mode it (re)arms the debounce
// timer so only the last event of a burst starts a run, with that event's inputs.
// It reports whether a run was scheduled.
func (s *TriggerScheduler) InputChanged(in domain.GenerationInputs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.auto {
		return false
	}
	s.cancelPendingLocked()
	gen := s.gen
	snapshot := in
	snapshot.Images = append([]domain.ImageInput(nil), in.Images...)
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen, snapshot) })
	return true
}

func (s *TriggerScheduler) fire(gen uint64, in domain.GenerationInputs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.stopped || !s.auto {
		return
	}
	s.timer = nil
	s.gen++
	s.logger.Debug("Debounce window elapsed, starting generation")
	if _, err := s.starter.Start(in); err != nil {
		s.logger.Debug("Auto generation not started", zap.Error(err))
	}
}

// TriggerNow starts a run immediately, dropping any pending debounced run.
func (s *TriggerScheduler) TriggerNow(in domain.GenerationInputs) (string, error) {
	s.mu.Lock()
	s.cancelPendingLocked()
	s.mu.Unlock()
	return s.starter.Start(in)
}

// SetAutoMode persists the mode. Leaving auto mode drops a pending run without firing it.
func (s *TriggerScheduler) SetAutoMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	s.auto = enabled
	if !enabled {
		s.cancelPendingLocked()
	}
	s.mu.Unlock()

	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.Set(ctx, domain.PrefAutoGenerate, strconv.FormatBool(enabled)); err != nil {
		return domain.NewInternalError("failed to persist auto-generate preference", err)
	}
	return nil
}

// AutoMode reports whether auto mode is on.
func (s *TriggerScheduler) AutoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// Pending reports whether a debounced run is armed.
func (s *TriggerScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Stop drops any pending run and ignores further input events.
func (s *TriggerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.stopped = true
}

func (s *TriggerScheduler) cancelPendingLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
