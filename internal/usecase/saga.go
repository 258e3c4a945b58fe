package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const compensationTimeout = 10 * time.Second

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// saga runs the writes of one clinic action in order and remembers how to
// undo each of them. When a step fails, the completed steps are undone in
// reverse order.
type saga struct {
	name          string
	log           *logrus.Logger
	compensations []compensation
	dirty         bool
}

func newSaga(name string, log *logrus.Logger) *saga {
	return &saga{name: name, log: log}
}

// Run executes one step. undo may be nil for steps that need no rollback.
func (s *saga) Run(ctx context.Context, step string, do func(ctx context.Context) error, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		stepErr := fmt.Errorf("%s: %s: %w", s.name, step, err)
		return s.rollback(ctx, stepErr)
	}
	if undo != nil {
		s.compensations = append(s.compensations, compensation{step: step, undo: undo})
	}
	return nil
}

// Fail aborts the saga with a business error found between steps
func (s *saga) Fail(ctx context.Context, err error) error {
	return s.rollback(ctx, err)
}

// Dirty reports whether a compensation failed, leaving partial writes behind
func (s *saga) Dirty() bool {
	return s.dirty
}

func (s *saga) rollback(ctx context.Context, cause error) error {
	if len(s.compensations) == 0 {
		return cause
	}

	// compensate even when the request context is already cancelled
	undoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	errs := []error{cause}
	for i := len(s.compensations) - 1; i >= 0; i-- {
		c := s.compensations[i]
		if err := c.undo(undoCtx); err != nil {
			s.dirty = true
			s.log.Errorf("CRITICAL: Failed to compensate %s step %q: %+v", s.name, c.step, err)
			errs = append(errs, fmt.Errorf("compensate %s: %w", c.step, err))
			continue
		}
		s.log.Infof("Compensated %s step %q", s.name, c.step)
	}
	s.compensations = nil

	return errors.Join(errs...)
}
