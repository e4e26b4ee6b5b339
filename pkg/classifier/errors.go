package classifier

import "errors"

var (
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrEmptyTrainingSet  = errors.New("empty training set")
	ErrInvalidLabels     = errors.New("invalid training labels")
	ErrTooFewClasses     = errors.New("at least two classes are required")
	ErrUnknownKind       = errors.New("unknown classifier kind")
	ErrInvalidParams     = errors.New("invalid classifier parameters")
	ErrNotFitted         = errors.New("classifier is not fitted")
)
