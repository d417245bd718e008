package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInsufficientData = errors.New("insufficient game data")
	ErrSingularSystem   = errors.New("singular linear system")
	ErrNoValidBlend     = errors.New("no blend weight passed the safety filter")
)

// InsufficientDataError reports too few valid game rows after outlier
// filtering. It unwraps to ErrInsufficientData.
type InsufficientDataError struct {
	Valid    int
	Required int
	Filtered int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient game data: %d valid rows after filtering %d outliers, need %d",
		e.Valid, e.Filtered, e.Required)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// SingularSystemError reports that the regularized normal equations could not
// be solved. With lambda > 0 the team block is positive-definite, so this
// indicates corrupted input rather than an expected condition.
type SingularSystemError struct {
	Size  int
	Pivot int
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("singular %dx%d system: no usable pivot at column %d", e.Size, e.Size, e.Pivot)
}

func (e *SingularSystemError) Unwrap() error { return ErrSingularSystem }

// NoValidBlendError reports that every candidate blend weight was rejected by
// the secondary-set sign-safety filter.
type NoValidBlendError struct {
	Candidates int
}

func (e *NoValidBlendError) Error() string {
	return fmt.Sprintf("all %d candidate blend weights have negative secondary-set correlation", e.Candidates)
}

func (e *NoValidBlendError) Unwrap() error { return ErrNoValidBlend }
