package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(fmt.Errorf("wrapped: %w", terminal.InterruptErr)); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	other := errors.New("boom")
	if err := translateSurveyErr(other); !errors.Is(err, other) {
		t.Fatalf("expected passthrough, got %v", err)
	}
}

func TestIndexOf(t *testing.T) {
	options := []string{"Submit", "Edit a field", "Quit"}
	if got := indexOf(options, "Quit"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := indexOf(options, "missing"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestSurveyInfo(t *testing.T) {
	var buf bytes.Buffer
	driver := NewSurvey(&buf)
	if err := driver.Info(context.Background(), "hello"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := driver.Info(ctx, "late"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
