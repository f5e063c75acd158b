package normalize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeCorrector struct {
	out string
	err error
}

func (f fakeCorrector) Correct(ctx context.Context, text string) (string, error) {
	return f.out, f.err
}

func TestNormalizeUsesCorrection(t *testing.T) {
	got := Normalize(context.Background(), fakeCorrector{out: "how many points did Stephen Curry score"}, "how many pointz did steph curry score")
	if got != "how many points did Stephen Curry score" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestNormalizeFallsBackOnError(t *testing.T) {
	raw := "how many points did steph curry score"
	got := Normalize(context.Background(), fakeCorrector{err: errors.New("llm unavailable")}, raw)
	if got != raw {
		t.Errorf("Normalize = %q, want unchanged %q", got, raw)
	}
}

func TestNormalizeRejectsImplausibleGrowth(t *testing.T) {
	raw := "points?"
	got := Normalize(context.Background(), fakeCorrector{out: strings.Repeat("a very long hallucinated answer ", 10)}, raw)
	if got != raw {
		t.Errorf("Normalize = %q, want unchanged %q", got, raw)
	}
}

func TestNormalizeRejectsScriptSwitch(t *testing.T) {
	raw := "how many points did steph curry score"
	got := Normalize(context.Background(), fakeCorrector{out: "стефан карри набрал очков"}, raw)
	if got != raw {
		t.Errorf("Normalize = %q, want unchanged %q", got, raw)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(context.Background(), fakeCorrector{out: "x"}, ""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}
