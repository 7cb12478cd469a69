package ingestion

import "errors"

var (
	// ErrOpenFuncRequired is returned when no store opener is provided.
	ErrOpenFuncRequired = errors.New("store open function required")

	// ErrMapperRequired is returned when no document mapper is provided.
	ErrMapperRequired = errors.New("document mapper required")

	// ErrInterrupted is returned when the run's context ends before the input is exhausted.
	ErrInterrupted = errors.New("ingestion interrupted")
)
