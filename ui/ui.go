package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text, mirroring
// the output methods on UI. The print layer maps each value to a terminal
// style; data consumers (JSON, tests) see plain text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain, no colour emphasis
	SeveritySuccess                  // green, positive
	SeverityWarn                     // yellow, needs attention
	SeverityError                    // red, negative
	SeverityCritical                 // bold, must-review before action
)

// StyledText pairs a plain string with a Severity annotation.
//
// JSON serialization: the struct marshals as just the plain Text string so
// consumers receive clean output with no ANSI codes and no extra structure.
//
// Terminal rendering: pass the value to [UI.Style] to obtain the
// appropriately coloured string for embedding in a format call:
//
//	u.Info("Balance: %s", u.Style(balance))
type StyledText struct {
	Text     string
	Severity Severity
}

// MarshalJSON serializes StyledText as a plain JSON string (just Text).
func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI provides all terminal interaction for faucet commands.
//
// It abstracts output, user prompts, and indentation so that:
//   - Production code uses TerminalUI (writes to os.Stdout, reads from os.Stdin)
//   - Tests use RecordingUI (captures all output, serves scripted inputs)
//
// Use [UI.Indent] to get a child UI at one deeper indent level. The child
// shares the same underlying writer and reader, so input sequencing is
// preserved across scopes.
type UI interface {
	// --- Output ---

	// Style returns the text from t coloured according to its Severity.
	// When colours are disabled (piped output, RecordingUI) the plain
	// text is returned unchanged.
	Style(t StyledText) string

	// Info writes a neutral status line (no prefix, no color).
	Info(format string, args ...any)

	// Success writes a positive outcome in green.
	Success(format string, args ...any)

	// Warn writes a non-fatal warning in yellow.
	Warn(format string, args ...any)

	// Error writes a failure in red.
	// This does NOT exit or return an error, callers decide what to do next.
	Error(format string, args ...any)

	// Critical writes data the user must review before signing, or proof of
	// a transaction they just broadcast. Rendered bold.
	Critical(format string, args ...any)

	// Section writes a visual separator centred around a title.
	// Example: "===== Token Faucet ====="
	Section(title string)

	// KeyValue renders an aligned 2-column block, label on the left and
	// value on the right.
	KeyValue(rows [][2]string)

	// Table renders a full bordered table with a header row followed by data
	// rows.
	Table(headers []string, rows [][]string)

	// Spinner starts an animated spinner with the given message and returns a
	// stop function:
	//
	//   stop := u.Spinner("Waiting for confirmation...")
	//   defer stop()
	//
	// In RecordingUI and non-terminal contexts the stop function is a no-op.
	Spinner(msg string) func()

	// Interpret writes what the faucet understood from the user's last input,
	// indented and prefixed with "→".
	Interpret(value string)

	// --- Input ---

	// Ask displays a "> " prompt at the current indent level and reads a line.
	// It loops until validate returns nil. Pass nil to accept any input.
	Ask(validate func(string) error) string

	// Secret prints prompt and reads a line without echoing it.
	Secret(prompt string) string

	// Confirm asks a yes/no question and returns the boolean answer.
	Confirm(prompt string, defaultYes bool) bool

	// Choose prints a numbered list of options, prompts for a selection,
	// and returns the 0-based index of the chosen option.
	Choose(prompt string, options []string) int

	// --- Nesting ---

	// Indent returns a child UI with indent level increased by one,
	// sharing the same underlying writer and reader as the parent.
	Indent() UI

	// Writer returns an io.Writer that prepends the current indentation
	// to every line.
	Writer() io.Writer
}
