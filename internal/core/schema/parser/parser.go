// Package parser reads table definitions from the text schema format:
//
//	version "1.0"
//
//	table books {
//	  id      integer @id
//	  title   text    @default("")
//	  deleted boolean?
//	}
//
// A trailing "?" marks a column nullable, @id marks the primary key and
// @default(lit) gives a default in storage form.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/tableshim/internal/adapters/storage"
	"github.com/satishbabariya/tableshim/internal/core/codec"
	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// SupportedVersions is the constraint a file's version header must satisfy.
const SupportedVersions = ">= 1.0, < 2.0"

// CurrentVersion is written by Format.
const CurrentVersion = "1.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrBadAttribute       = errors.New("malformed attribute")
)

var supported = version.MustConstraints(version.NewConstraint(SupportedVersions))

// Error is a semantic error tied to a position in the source.
type Error struct {
	Pos lexer.Position
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Pos, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Parse reads a schema from r. Column types resolve through reg; a nil reg
// means the built-in codecs only.
func Parse(filename string, r io.Reader, reg *codec.Registry) (*schema.Schema, error) {
	file, err := fileParser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = codec.NewRegistry()
	}
	return build(file, reg)
}

// ParseString parses a schema held in a string.
func ParseString(filename, input string, reg *codec.Registry) (*schema.Schema, error) {
	return Parse(filename, strings.NewReader(input), reg)
}

// Load reads and parses the schema file at path.
func Load(ctx context.Context, s storage.Storage, path string, reg *codec.Registry) (*schema.Schema, error) {
	content, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return ParseString(path, string(content), reg)
}

func build(file *fileNode, reg *codec.Registry) (*schema.Schema, error) {
	if file.Version != nil {
		if err := checkVersion(*file.Version); err != nil {
			return nil, &Error{Pos: file.Pos, Err: err}
		}
	}

	tables := make([]*schema.Table, 0, len(file.Tables))
	for _, tn := range file.Tables {
		cols := make([]schema.Column, 0, len(tn.Columns))
		for _, cn := range tn.Columns {
			col, err := buildColumn(cn, reg)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col)
		}
		t, err := schema.DefineTable(tn.Name, cols...)
		if err != nil {
			return nil, &Error{Pos: tn.Pos, Err: err}
		}
		tables = append(tables, t)
	}

	s, err := schema.NewSchema(tables...)
	if err != nil {
		return nil, &Error{Pos: file.Pos, Err: err}
	}
	return s, nil
}

func checkVersion(raw string) error {
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, raw, err)
	}
	if !supported.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

func buildColumn(cn *columnNode, reg *codec.Registry) (schema.Column, error) {
	c, err := reg.Lookup(cn.Type)
	if err != nil {
		return schema.Column{}, &Error{Pos: cn.Pos, Err: fmt.Errorf("column %q: %w", cn.Name, err)}
	}

	var opts []schema.ColumnOption
	if cn.Nullable {
		opts = append(opts, schema.Nullable())
	}

	for _, attr := range cn.Attrs {
		switch attr.Name {
		case "id":
			if len(attr.Args) != 0 {
				return schema.Column{}, &Error{Pos: attr.Pos, Err: fmt.Errorf("%w: @id takes no arguments", ErrBadAttribute)}
			}
			opts = append(opts, schema.PrimaryKey())
		case "default":
			if len(attr.Args) != 1 {
				return schema.Column{}, &Error{Pos: attr.Pos, Err: fmt.Errorf("%w: @default takes one argument", ErrBadAttribute)}
			}
			v, err := defaultValue(attr.Args[0], c)
			if err != nil {
				return schema.Column{}, &Error{Pos: attr.Args[0].Pos, Err: fmt.Errorf("column %q: %w", cn.Name, err)}
			}
			opts = append(opts, schema.Default(v))
		default:
			return schema.Column{}, &Error{Pos: attr.Pos, Err: fmt.Errorf("%w: @%s", ErrUnknownAttribute, attr.Name)}
		}
	}

	return schema.NewColumn(cn.Name, c, opts...), nil
}

// defaultValue turns a storage-form literal into the column's logical value.
func defaultValue(lit *literalNode, c codec.Codec) (any, error) {
	stored, err := lit.storageValue()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	return c.Decode(stored)
}

func (l *literalNode) storageValue() (any, error) {
	switch {
	case l.String != nil:
		return *l.String, nil
	case l.Number != nil:
		if strings.Contains(*l.Number, ".") {
			return strconv.ParseFloat(*l.Number, 64)
		}
		return strconv.ParseInt(*l.Number, 10, 64)
	case l.Bool != nil:
		if *l.Bool == "true" {
			return int64(1), nil
		}
		return int64(0), nil
	default:
		return nil, nil
	}
}
