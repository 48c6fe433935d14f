package kafka

import (
	"errors"
	"fmt"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrInvalidMessage = errors.New("kafka message is invalid")
	ErrEmptyKey       = errors.New("kafka message key cannot be empty")
	ErrEmptyValue     = errors.New("kafka message value cannot be empty")
)

// PermanentError marks a processing failure that retrying cannot fix
// (malformed payload, unknown event type). It goes straight to the DLQ.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func ShouldRetry(err error, retries, maxRetries int) bool {
	var perm *PermanentError
	if errors.As(err, &perm) {
		return false
	}
	return retries < maxRetries
}
