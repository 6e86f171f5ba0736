package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escape codes used by Format.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

var colorEnabled = true

// SetColors turns ANSI styling of formatted diagnostics on or off. The CLI
// turns it off when stderr is not a terminal.
func SetColors(enabled bool) {
	colorEnabled = enabled
}

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + ansiReset
}

// Format renders the diagnostic for a terminal: headline, location, detail,
// cause, hint and documentation link, each on its own block.
func (e *CodedError) Format() string {
	var b strings.Builder

	head := e.Message
	if e.Code != "" {
		head = e.Code + ": " + head
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", paint(ansiRed+ansiBold, "ERROR"), paint(ansiBold, head))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(ansiCyan, e.Location.String()))
	}
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(ansiGray, "Cause:"), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(ansiCyan, "Hint:"), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", paint(ansiGray, "Learn more:"), paint(ansiBlue, e.DocURL))
	}
	return b.String()
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	DocURL     string    `json:"docUrl,omitempty"`
}

// FormatJSON returns the diagnostic as a JSON object.
func (e *CodedError) FormatJSON() string {
	je := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		je.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(je)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes at word boundaries.
func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Fprint writes err to w. The first CodedError in err's chain is rendered
// with Format; other errors print as a single headline.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ce *CodedError
	if stderrors.As(err, &ce) {
		fmt.Fprint(w, ce.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(ansiRed+ansiBold, "ERROR"), err.Error())
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
