package codec

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"time"
)

// Built-in codec names.
const (
	NameText      = "text"
	NameInteger   = "integer"
	NameReal      = "real"
	NameBoolean   = "boolean"
	NameTimestamp = "timestamp"
	NameBlob      = "blob"
)

var (
	// TextCodec stores strings as-is.
	TextCodec = New(NameText, Text, encodeText, decodeText)
	// IntegerCodec stores int64 values, accepting any Go integer on encode.
	IntegerCodec = New(NameInteger, Integer, encodeInteger, decodeInteger)
	// RealCodec stores finite float64 values.
	RealCodec = New(NameReal, Real, encodeReal, decodeReal)
	// BooleanCodec stores true/false as 1/0.
	BooleanCodec = New(NameBoolean, Integer, encodeBoolean, decodeBoolean)
	// TimestampCodec stores time.Time as milliseconds since the Unix epoch.
	TimestampCodec = New(NameTimestamp, Integer, encodeTimestamp, decodeTimestamp)
	// BlobCodec stores byte slices as-is.
	BlobCodec = New(NameBlob, Blob, encodeBlob, decodeBlob)
)

// Builtins returns the built-in codecs in a stable order.
func Builtins() []Codec {
	return []Codec{TextCodec, IntegerCodec, RealCodec, BooleanCodec, TimestampCodec, BlobCodec}
}

func encodeText(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, badInput("string", v, ErrTypeMismatch)
	}
	return s, nil
}

func decodeText(v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		// MySQL hands text columns back as raw bytes.
		return string(s), nil
	default:
		return nil, mismatch("string", v)
	}
}

func encodeInteger(v any) (any, error) {
	n, ok, inRange := integerValue(v)
	if !ok {
		return nil, badInput("integer", v, ErrTypeMismatch)
	}
	if !inRange {
		return nil, badInput("integer", v, ErrOutOfRange)
	}
	return n, nil
}

func decodeInteger(v any) (any, error) {
	n, err := storedInteger(v)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func encodeReal(v any) (any, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		n, ok, inRange := integerValue(v)
		if !ok {
			return nil, badInput("number", v, ErrTypeMismatch)
		}
		if !inRange {
			return nil, badInput("number", v, ErrOutOfRange)
		}
		f = float64(n)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, badInput("finite number", v, ErrOutOfRange)
	}
	return f, nil
}

func decodeReal(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		if errors.Is(err, strconv.ErrRange) || (err == nil && (math.IsNaN(f) || math.IsInf(f, 0))) {
			return nil, &DecodeError{Expected: "finite number", Value: v, Err: ErrOutOfRange}
		}
		if err != nil {
			return nil, mismatch("number", v)
		}
		return f, nil
	}
	n, ok, inRange := integerValue(v)
	if !ok {
		return nil, mismatch("number", v)
	}
	if !inRange {
		return nil, &DecodeError{Expected: "number", Value: v, Err: ErrOutOfRange}
	}
	return float64(n), nil
}

func encodeBoolean(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, badInput("bool", v, ErrTypeMismatch)
	}
	if b {
		return int64(1), nil
	}
	return int64(0), nil
}

func decodeBoolean(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	n, err := storedInteger(v)
	if err != nil {
		return nil, err
	}
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, &DecodeError{Expected: "0 or 1", Value: v, Err: ErrOutOfRange}
	}
}

// encodeTimestamp rejects times finer than a millisecond, since they cannot be
// stored. The zone is not stored either; decoded values are always UTC.
func encodeTimestamp(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, badInput("time.Time", v, ErrTypeMismatch)
	}
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return nil, badInput("time.Time with millisecond precision", v, ErrOutOfRange)
	}
	return t.UnixMilli(), nil
}

func decodeTimestamp(v any) (any, error) {
	n, err := storedInteger(v)
	if err != nil {
		return nil, err
	}
	return time.UnixMilli(n).UTC(), nil
}

func encodeBlob(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, badInput("[]byte", v, ErrTypeMismatch)
	}
	return bytes.Clone(b), nil
}

func decodeBlob(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch("[]byte", v)
	}
	return bytes.Clone(b), nil
}

// storedInteger reads an integer primitive handed back by a driver. Integral
// floats are accepted for engines without a distinct integer primitive, and
// ASCII digits in a []byte for MySQL's text protocol. Go strings are not.
func storedInteger(v any) (int64, error) {
	if b, ok := v.([]byte); ok {
		n, err := strconv.ParseInt(string(b), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, &DecodeError{Expected: "integer", Value: v, Err: ErrOutOfRange}
		}
		if err != nil {
			return 0, mismatch("integer", v)
		}
		return n, nil
	}
	if f, ok := v.(float64); ok {
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, &DecodeError{Expected: "integer", Value: v, Err: ErrOutOfRange}
		}
		return int64(f), nil
	}
	n, ok, inRange := integerValue(v)
	if !ok {
		return 0, mismatch("integer", v)
	}
	if !inRange {
		return 0, &DecodeError{Expected: "integer", Value: v, Err: ErrOutOfRange}
	}
	return n, nil
}

// integerValue widens any Go integer kind to int64. ok reports whether v is an
// integer at all; inRange whether it fits in an int64.
func integerValue(v any) (n int64, ok bool, inRange bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true, true
	case int8:
		return int64(x), true, true
	case int16:
		return int64(x), true, true
	case int32:
		return int64(x), true, true
	case int64:
		return x, true, true
	case uint:
		return int64(x), true, uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true, true
	case uint16:
		return int64(x), true, true
	case uint32:
		return int64(x), true, true
	case uint64:
		return int64(x), true, x <= math.MaxInt64
	default:
		return 0, false, false
	}
}
