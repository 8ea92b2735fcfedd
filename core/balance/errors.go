package balance

import (
	"errors"
	"fmt"

	"github.com/kilianp07/teamgen/core/model"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("invalid team configuration")
	// ErrUnsatisfiable is matched by every UnsatisfiableError.
	ErrUnsatisfiable = errors.New("constraints unsatisfiable")
)

// ConfigurationError reports input that makes a two-way split impossible by
// construction. It is returned before any trial is attempted.
type ConfigurationError struct {
	// Side is set when too many players are pinned to one team.
	Side  *model.Side
	Fixed int
	Limit int
	// Reason describes the violated invariant.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Side != nil {
		return fmt.Sprintf("%d players are fixed to team %s but a team holds at most %d", e.Fixed, e.Side, e.Limit)
	}
	return e.Reason
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func tooManyFixed(side model.Side, fixed, limit int) *ConfigurationError {
	return &ConfigurationError{Side: &side, Fixed: fixed, Limit: limit}
}

func invalidInput(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// UnsatisfiableError reports that no candidate passed the acceptance test
// within the trial budget.
type UnsatisfiableError struct {
	Trials int
	// Detail is set when the failure was detected without sampling.
	Detail string
}

func (e *UnsatisfiableError) Error() string {
	msg := fmt.Sprintf("no balanced teams found after %d trials", e.Trials)
	if e.Detail != "" {
		msg = e.Detail
	}
	return msg + "; loosen the max rating delta or the min position counts"
}

func (e *UnsatisfiableError) Is(target error) bool { return target == ErrUnsatisfiable }
