package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime warning",
			code:    "R001",
			wantMsg: "Value cannot be made reactive",
			wantCat: CategoryRuntime,
		},
		{
			name:    "scheduler error",
			code:    "R100",
			wantMsg: "Flush budget exceeded",
			wantCat: CategoryScheduler,
		},
		{
			name:    "config error",
			code:    "R122",
			wantMsg: "Invalid port number",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "key %q missing", "a")
	if err.Message != `key "a" missing` {
		t.Errorf("Message = %q, want %q", err.Message, `key "a" missing`)
	}
	if err.Error() != `key "a" missing` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCodedError_Error(t *testing.T) {
	got := New("R002").Error()
	want := "R002: Set operation failed: target is readonly"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodedError_IsMatchesCode(t *testing.T) {
	sentinel := New("R100")
	err := New("R100").WithDetail("effect 7 ran 101 times")

	if !stderrors.Is(err, sentinel) {
		t.Error("expected diagnostics with the same code to match")
	}
	if stderrors.Is(err, New("R101")) {
		t.Error("expected diagnostics with different codes not to match")
	}
}

func TestCodedError_Wrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("R120").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if !strings.Contains(err.Format(), "boom") {
		t.Error("expected Format to include the cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R120") != nil {
		t.Error("FromError(nil) should return nil")
	}

	coded := New("R121")
	if FromError(coded, "R120") != coded {
		t.Error("FromError should return coded errors unchanged")
	}

	wrapped := FromError(stderrors.New("plain"), "R120")
	if wrapped.Code != "R120" || wrapped.Wrapped == nil {
		t.Errorf("unexpected wrap result: %+v", wrapped)
	}
}

func TestWithCaller(t *testing.T) {
	err := New("R001").WithCaller(0)
	if err.Location == nil {
		t.Fatal("expected caller location")
	}
	if !strings.HasSuffix(err.Location.File, "errors_test.go") {
		t.Errorf("Location.File = %q, want errors_test.go", err.Location.File)
	}
	if err.Location.Line <= 0 {
		t.Errorf("Location.Line = %d, want > 0", err.Location.Line)
	}
}

func TestLocation_String(t *testing.T) {
	var nilLoc *Location
	if nilLoc.String() != "" {
		t.Error("nil location should format as empty string")
	}
	loc := &Location{File: "a.go", Line: 3}
	if loc.String() != "a.go:3" {
		t.Errorf("String() = %q", loc.String())
	}
}

func TestFormat(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	err := New("R005").WithSuggestion("Wrap the object with Reactive first")
	out := err.Format()

	for _, want := range []string{"ERROR R005: ToRefs expects a reactive object", "Hint: Wrap the object", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("Format() should not contain escape codes with colors off:\n%s", out)
	}
}

func TestCodedError_ErrorIncludesContext(t *testing.T) {
	err := New("R140").WithDetail("Unknown scenario nope")
	if got := err.Error(); got != "R140: Unknown demo scenario (Unknown scenario nope)" {
		t.Errorf("Error() = %q", got)
	}

	err = New("R150").Wrap(stderrors.New("address already in use"))
	if got := err.Error(); got != "R150: Inspector server failed: address already in use" {
		t.Errorf("Error() = %q", got)
	}
}

func TestFprintFindsWrappedCodedError(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	cause := New("R120").
		WithDetail("Failed to parse reactivity.json: unexpected end of JSON input").
		WithSuggestion("Check that the file is valid JSON")
	var b strings.Builder
	Fprint(&b, fmt.Errorf("inspect: %w", cause))

	out := b.String()
	for _, want := range []string{"ERROR R120: Invalid configuration file", "unexpected end of JSON input", "Hint: Check that the file is valid JSON"} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint() missing %q:\n%s", want, out)
		}
	}

	b.Reset()
	Fprint(&b, stderrors.New("unknown flag: --nope"))
	if !strings.Contains(b.String(), "ERROR unknown flag: --nope") {
		t.Errorf("Fprint() = %q", b.String())
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("R101").Wrap(stderrors.New("closed"))
	err.Location = &Location{File: "loop.go", Line: 9}

	var got map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &got); jerr != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", jerr)
	}
	if got["code"] != "R101" || got["category"] != "scheduler" || got["cause"] != "closed" {
		t.Errorf("FormatJSON() = %v", got)
	}
	loc, _ := got["location"].(map[string]any)
	if loc["file"] != "loop.go" {
		t.Errorf("location = %v", got["location"])
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("expected registered codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("R998", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "R998")

	tmpl, ok := GetTemplate("R998")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate after Register = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped lines, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}
