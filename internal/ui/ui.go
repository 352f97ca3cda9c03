// Package ui renders CLI output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Out and Err are where output goes. Commands point them at cobra's writers.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Success prints a success message.
func Success(format string, args ...any) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message to Err.
func Error(format string, args ...any) {
	fmt.Fprintln(Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning.
func Warning(format string, args ...any) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Info prints secondary information.
func Info(format string, args ...any) {
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints an underlined section title.
func Section(title string) {
	fmt.Fprintln(Out, lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Render(TitleStyle.Render(title)))
}

// Table prints rows under headers.
func Table(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, out)
	return nil
}

// RenderMarkdown renders markdown for the terminal.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// Markdown renders and prints markdown.
func Markdown(content string) error {
	out, err := RenderMarkdown(content)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

var (
	keywordColor = color.New(color.FgCyan, color.Bold)
	bindColor    = color.New(color.FgYellow)
)

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true, "NOT": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "ORDER": true, "BY": true, "ASC": true, "DESC": true,
	"LIMIT": true, "OFFSET": true, "IS": true, "NULL": true, "DEFAULT": true,
	"CREATE": true, "TABLE": true, "IF": true, "EXISTS": true, "PRIMARY": true, "KEY": true,
}

// HighlightSQL colors SQL keywords. Colors are dropped when output is not a
// terminal.
func HighlightSQL(sql string) string {
	words := strings.Split(sql, " ")
	for i, w := range words {
		if sqlKeywords[w] {
			words[i] = keywordColor.Sprint(w)
		}
	}
	return strings.Join(words, " ")
}

// SQL prints a statement and its binds.
func SQL(sql string, binds []any) {
	fmt.Fprintln(Out, HighlightSQL(sql))
	if len(binds) > 0 {
		parts := make([]string, len(binds))
		for i, b := range binds {
			parts[i] = FormatValue(b)
		}
		fmt.Fprintln(Out, SecondaryStyle.Render("binds:"), bindColor.Sprint("["+strings.Join(parts, ", ")+"]"))
	}
}

// FormatValue renders a bind or decoded value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return fmt.Sprintf("x'%x'", x)
	default:
		return fmt.Sprint(x)
	}
}
