package parser

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/satishbabariya/tableshim/internal/core/schema"
)

// Format renders s in the text schema format. Parsing the output yields an
// equivalent schema.
func Format(s *schema.Schema) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "version %q\n", CurrentVersion)

	for _, t := range s.Tables() {
		fmt.Fprintf(&b, "\ntable %s {\n", t.Name())

		tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', 0)
		for _, col := range t.Columns() {
			typ := col.Codec.Name()
			if col.Nullable {
				typ += "?"
			}
			var attrs []string
			if col.PrimaryKey {
				attrs = append(attrs, "@id")
			}
			if col.HasDefault {
				lit, err := formatDefault(col)
				if err != nil {
					return "", err
				}
				attrs = append(attrs, "@default("+lit+")")
			}
			line := "  " + col.Name + "\t" + typ
			if len(attrs) > 0 {
				line += "\t" + strings.Join(attrs, " ")
			}
			fmt.Fprintln(tw, line)
		}
		if err := tw.Flush(); err != nil {
			return "", err
		}
		b.WriteString("}\n")
	}
	return b.String(), nil
}

func formatDefault(col schema.Column) (string, error) {
	v, err := col.Encode(col.Default)
	if err != nil {
		return "", err
	}
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return strconv.Quote(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, nil
	default:
		return "", fmt.Errorf("column %q: default of type %T cannot be written", col.Name, v)
	}
}
