package hrrembed

import "errors"

var (
	// ErrUnknownWord is returned when a query names a word outside the vocabulary.
	ErrUnknownWord = errors.New("word not in vocabulary")
	// ErrSpace is returned for a space that does not exist or was not trained.
	ErrSpace = errors.New("embedding space unavailable")
	// ErrPosition is returned for an order offset of zero or beyond the window.
	ErrPosition = errors.New("position out of range")
	// ErrRole is returned for a dependency label with no role vector.
	ErrRole = errors.New("unrecognized dependency role")
	// ErrBlank is returned when a phrase does not contain exactly one blank.
	ErrBlank = errors.New("phrase must contain exactly one blank")
	// ErrDegenerate is returned when a vector that must be normalized is zero.
	ErrDegenerate    = errors.New("zero-norm vector")
	ErrDuplicateWord = errors.New("duplicate word in wordlist")
	// ErrWorker wraps the failure of a training worker; training is aborted.
	ErrWorker = errors.New("training worker failed")
)
