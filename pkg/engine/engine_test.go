package engine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty scene, got %d meshes", s.Len())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil || s.Len() != 0 {
		t.Fatalf("expected empty scene, got %v", s)
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	eng := NewEngine(nil)

	source := `
(def x 10)
(def y 20)
(+ x y)
`
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	if s.Len() != 0 {
		t.Errorf("expected no meshes without mesh forms, got %d", s.Len())
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine(nil)

	// Unmatched paren is a parse error.
	s, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateVersionIncreases(t *testing.T) {
	eng := NewEngine(nil)

	var last uint64
	for i := 0; i < 3; i++ {
		s, evalErrs, err := eng.Evaluate(`(mesh "m" (box))`)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if s.Version <= last {
			t.Errorf("iteration %d: version %d did not increase past %d", i, s.Version, last)
		}
		last = s.Version
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine(nil)

	for i := 0; i < 5; i++ {
		s, evalErrs, err := eng.Evaluate(`(mesh "a" (box)) (mesh "b" (box))`)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if s.Len() != 2 || s.Entries[0].Name != "a" || s.Entries[1].Name != "b" {
			t.Errorf("iteration %d: unexpected scene order", i)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// A channel that never sends stands in for a script that loops forever.
	eng := NewEngine(nil, WithTimeout(20*time.Millisecond))
	eng.generation = 1

	done := make(chan error, 1)
	go func() {
		_, _, err := eng.await(make(chan evalResult), 1)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "timed out after 20ms") {
			t.Errorf("await() error = %v, want a 20ms timeout", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("await() ignored the configured timeout")
	}
}

func TestNewEngineDefaultTimeout(t *testing.T) {
	if eng := NewEngine(nil); eng.timeout != EvalTimeout {
		t.Errorf("timeout = %s, want %s", eng.timeout, EvalTimeout)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine(nil)
	eng.generation = 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := eng.await(ch, 1)
	if !errors.Is(err, errSuperseded) {
		t.Errorf("await() error = %v, want errSuperseded", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "short line format",
			msg:      "line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
