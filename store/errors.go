package store

import "errors"

var (
	// ErrStorageUnavailable is returned when the key/value service fails a read or write.
	// The underlying transport error is wrapped alongside it.
	ErrStorageUnavailable = errors.New("eventease: storage unavailable")

	// ErrCounterNotPersisted is returned alongside a stored record when only the
	// ID counter write failed. It always wraps ErrStorageUnavailable too.
	ErrCounterNotPersisted = errors.New("eventease: id counter not persisted")

	// ErrIDMismatch is returned when a stamp function drops the allocated ID.
	ErrIDMismatch = errors.New("eventease: stamped record does not carry the allocated id")

	// ErrInvalidConfig is returned by New when the store configuration is unusable.
	ErrInvalidConfig = errors.New("eventease: invalid store config")

	// ErrNilKV is returned by New when no key/value service is supplied.
	ErrNilKV = errors.New("eventease: nil key/value service")
)
