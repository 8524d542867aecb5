package canframe

import (
	"errors"
	"fmt"
)

// ErrShortFrame is returned by Decode when data is shorter than the message.
var ErrShortFrame = errors.New("canframe: frame shorter than message length")

// ConfigurationError reports a message layout that cannot be compiled.
// It is only returned while building a Message.
type ConfigurationError struct {
	Message string
	Signal  string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Signal == "" {
		return fmt.Sprintf("canframe: message %q: %s", e.Message, e.Reason)
	}
	return fmt.Sprintf("canframe: message %q signal %q: %s", e.Message, e.Signal, e.Reason)
}

// MissingSignalError reports an encode call without a value for a required signal.
type MissingSignalError struct {
	Message string
	Signal  string
}

func (e *MissingSignalError) Error() string {
	return fmt.Sprintf("canframe: encode %q: missing value for signal %q", e.Message, e.Signal)
}

// RangeError reports a raw value that does not fit the signal's bit width.
type RangeError struct {
	Signal string
	Value  string
	Min    string
	Max    string
	Reason string
}

func (e *RangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("canframe: signal %q: raw value %s %s", e.Signal, e.Value, e.Reason)
	}
	return fmt.Sprintf("canframe: signal %q: raw value %s outside [%s, %s]", e.Signal, e.Value, e.Min, e.Max)
}

// NotFoundError reports a failed lookup. Kind is "signal" or "message".
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("canframe: %s %s not found", e.Kind, e.Key)
}

// ChoiceError reports a choice string the signal does not define.
type ChoiceError struct {
	Signal string
	Choice string
}

func (e *ChoiceError) Error() string {
	return fmt.Sprintf("canframe: signal %q has no choice %q", e.Signal, e.Choice)
}

// MultiplexError reports an encode call selecting a multiplexer id with no
// signal group. Decode never returns it.
type MultiplexError struct {
	Multiplexer string
	ID          int64
}

func (e *MultiplexError) Error() string {
	return fmt.Sprintf("canframe: multiplexer %q has no group for id %d", e.Multiplexer, e.ID)
}

// CacheError wraps a decoded-frame cache failure with the storage key involved.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("canframe: cache %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
