// Package codec converts column values between their application form and the
// primitive form a SQL storage engine accepts.
package codec

import (
	"fmt"
)

// StorageType is the primitive column type the storage engine sees.
type StorageType string

const (
	// Text is stored as a string.
	Text StorageType = "text"
	// Integer is stored as a 64-bit integer.
	Integer StorageType = "integer"
	// Real is stored as a 64-bit float.
	Real StorageType = "real"
	// Blob is stored as a byte sequence.
	Blob StorageType = "blob"
)

// SQLType returns the SQLite column type for the storage type.
func (s StorageType) SQLType() string {
	switch s {
	case Text:
		return "TEXT"
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Blob:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// Codec converts values of one logical column type.
type Codec interface {
	// Name is the logical type name, e.g. "boolean".
	Name() string

	// StorageType is the primitive the encoded value has.
	StorageType() StorageType

	// Encode converts a logical value to its storage primitive.
	Encode(v any) (any, error)

	// Decode converts a storage primitive to its logical value.
	Decode(v any) (any, error)
}

// EncodeFunc converts a logical value to a storage primitive.
type EncodeFunc func(v any) (any, error)

// DecodeFunc converts a storage primitive to a logical value.
type DecodeFunc func(v any) (any, error)

type funcCodec struct {
	name        string
	storageType StorageType
	encode      EncodeFunc
	decode      DecodeFunc
}

// New builds a codec from an encode/decode pair. The pair must round-trip:
// decode(encode(x)) == x for every x the encoder accepts.
func New(name string, storageType StorageType, encode EncodeFunc, decode DecodeFunc) Codec {
	return &funcCodec{
		name:        name,
		storageType: storageType,
		encode:      encode,
		decode:      decode,
	}
}

func (c *funcCodec) Name() string             { return c.name }
func (c *funcCodec) StorageType() StorageType { return c.storageType }

func (c *funcCodec) Encode(v any) (any, error) {
	out, err := c.encode(v)
	if err != nil {
		return nil, withCodec(err, c.name)
	}
	return out, nil
}

func (c *funcCodec) Decode(v any) (any, error) {
	out, err := c.decode(v)
	if err != nil {
		return nil, withCodec(err, c.name)
	}
	return out, nil
}

// withCodec stamps the codec name on codec errors produced by the pair.
func withCodec(err error, name string) error {
	switch e := err.(type) {
	case *EncodeError:
		if e.Codec == "" {
			cp := *e
			cp.Codec = name
			return &cp
		}
		return e
	case *DecodeError:
		if e.Codec == "" {
			cp := *e
			cp.Codec = name
			return &cp
		}
		return e
	default:
		return fmt.Errorf("codec %s: %w", name, err)
	}
}
