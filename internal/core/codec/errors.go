package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch means a value does not have the Go type the codec expects.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange means a numeric value does not fit the codec's domain.
	ErrOutOfRange = errors.New("value out of range")
	// ErrMissingField means a raw row has no value for a projected column.
	ErrMissingField = errors.New("missing field")
	// ErrNull means nil was given for a non-nullable column.
	ErrNull = errors.New("null value for non-nullable column")
	// ErrDuplicateCodec means a codec name is already registered.
	ErrDuplicateCodec = errors.New("codec already registered")
	// ErrUnknownCodec means no codec is registered under a name.
	ErrUnknownCodec = errors.New("unknown codec")
)

// EncodeError reports a logical value a codec cannot encode.
type EncodeError struct {
	Codec    string
	Column   string
	Expected string
	Value    any
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: expected %s, got %s: %v",
		subject(e.Codec, e.Column), e.Expected, describe(e.Value), e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports a storage value that does not have the shape a codec
// expects, or a raw row that lacks a projected field.
type DecodeError struct {
	Codec    string
	Column   string
	Expected string
	Value    any
	Err      error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("decode %s: %v", subject(e.Codec, e.Column), e.Err)
	}
	return fmt.Sprintf("decode %s: expected %s, got %s: %v",
		subject(e.Codec, e.Column), e.Expected, describe(e.Value), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func subject(codec, column string) string {
	switch {
	case column != "" && codec != "":
		return fmt.Sprintf("column %q (%s)", column, codec)
	case column != "":
		return fmt.Sprintf("column %q", column)
	case codec != "":
		return codec
	default:
		return "value"
	}
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T(%v)", v, v)
}

func mismatch(expected string, v any) error {
	return &DecodeError{Expected: expected, Value: v, Err: ErrTypeMismatch}
}

func badInput(expected string, v any, err error) error {
	return &EncodeError{Expected: expected, Value: v, Err: err}
}
