package core

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrResourceExhausted   = errors.New("resource exhausted")
	ErrInternalConsistency = errors.New("internal consistency")
)

func InvalidInputf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func InternalConsistencyf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInternalConsistency, format, args...)
}

const bytesPerAmplitude = 16

// ResourceError is returned before allocation when a state vector would not
// fit in the configured memory limit.
type ResourceError struct {
	Qubits        int
	RequiredBytes uint64 // 0 when the size overflows uint64
	LimitBytes    uint64
}

// EstimatedBytes is 16·2^n as a float, defined even when RequiredBytes
// overflows.
func (e *ResourceError) EstimatedBytes() float64 {
	return math.Ldexp(bytesPerAmplitude, e.Qubits)
}

func (e *ResourceError) Error() string {
	if e.RequiredBytes == 0 {
		return fmt.Sprintf("%s: state vector for %d qubits needs about %.3g bytes (limit %d bytes)",
			ErrResourceExhausted, e.Qubits, e.EstimatedBytes(), e.LimitBytes)
	}
	return fmt.Sprintf("%s: state vector for %d qubits needs %d bytes (limit %d bytes)",
		ErrResourceExhausted, e.Qubits, e.RequiredBytes, e.LimitBytes)
}

func (e *ResourceError) Unwrap() error {
	return ErrResourceExhausted
}
