package scheduler

import "github.com/vango-dev/reactivity/internal/errors"

// Sentinel errors returned by Queue and Loop. Errors returned with extra
// detail still match these under errors.Is.
var (
	// ErrBudgetExceeded is returned by Flush when an effect is run more
	// times in one flush than the queue allows.
	ErrBudgetExceeded error = errors.New("R100")

	// ErrLoopClosed is returned when work is submitted to a closed Loop.
	ErrLoopClosed error = errors.New("R101")

	// ErrPanic is returned by Loop.Do when the submitted function panics.
	ErrPanic error = errors.New("R102")
)
