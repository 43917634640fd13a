package repository

import "errors"

var (
	// ErrConflict means a guarded write lost a race; the surrounding transaction may be re-run.
	ErrConflict = errors.New("write conflict")
	// ErrSequenceMissing means the order counter was never seeded.
	ErrSequenceMissing = errors.New("order sequence document does not exist")
	// ErrSequenceExists is returned when seeding a counter that is already there.
	ErrSequenceExists = errors.New("order sequence already exists")
)
