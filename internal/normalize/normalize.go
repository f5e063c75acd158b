// Package normalize is the pipeline's input normalizer (C6): it asks the
// LLM's correction role to fix spelling, grammar, and player/team name
// errors in the raw user question before routing, and falls back to the
// original text whenever that call can't be trusted.
package normalize

import (
	"context"
	"unicode"
)

// Corrector is the subset of llm.Provider the normalizer needs.
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// maxGrowthFactor bounds how much longer a correction may be than the
// original question before it's treated as a hallucinated rewrite rather
// than a correction.
const maxGrowthFactor = 2

// Normalize returns a corrected version of raw, or raw unchanged if the
// correction call fails, times out, or produces an implausible result.
// It never returns an error: correction is a best-effort improvement, not
// a required step.
func Normalize(ctx context.Context, corrector Corrector, raw string) string {
	if raw == "" {
		return raw
	}
	corrected, err := corrector.Correct(ctx, raw)
	if err != nil {
		return raw
	}
	if !plausible(raw, corrected) {
		return raw
	}
	return corrected
}

func plausible(raw, corrected string) bool {
	if corrected == "" {
		return false
	}
	if len(corrected) > len(raw)*maxGrowthFactor {
		return false
	}
	return sameScript(raw, corrected)
}

// sameScript is a cheap guard against the correction call switching
// alphabets entirely (e.g. a non-Latin hallucination) — it only compares
// the dominant script of each string's letters, not a full language check.
func sameScript(a, b string) bool {
	aLatin, aOther := scriptCounts(a)
	bLatin, bOther := scriptCounts(b)
	if aLatin+aOther == 0 || bLatin+bOther == 0 {
		return true
	}
	aIsLatin := aLatin >= aOther
	bIsLatin := bLatin >= bOther
	return aIsLatin == bIsLatin
}

func scriptCounts(s string) (latin, other int) {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Latin, r) {
			latin++
		} else {
			other++
		}
	}
	return latin, other
}
