package textfit

import (
	"strings"
	"testing"
)

// monoMeasure pretends every rune is 8px wide.
func monoMeasure(s string) float32 {
	return float32(8 * len([]rune(s)))
}

func TestFit_SingleLine(t *testing.T) {
	lines := Fit("abc.png", 80, 100, 16, monoMeasure)
	if len(lines) != 1 || lines[0] != "abc.png" {
		t.Errorf("Expected the text unchanged on one line, got %q", lines)
	}
}

func TestFit_WrapsAtWordBoundary(t *testing.T) {
	// 80px fits 10 runes; "hello world foo" must not break inside "world".
	lines := Fit("hello world foo", 80, 40, 16, monoMeasure)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	if lines[0] != "hello" {
		t.Errorf("First line should back up to the word boundary, got %q", lines[0])
	}
	if lines[1] != "world foo" {
		t.Errorf("Second line should carry the rest, got %q", lines[1])
	}
}

func TestFit_SplitsLongToken(t *testing.T) {
	lines := Fit("abcdefghijklmnop", 80, 40, 16, monoMeasure)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	if lines[0] != "abcdefghij" || lines[1] != "klmnop" {
		t.Errorf("A token wider than the box must split mid-word: got %q", lines)
	}
}

func TestFit_RuneSafeSplitting(t *testing.T) {
	lines := Fit(strings.Repeat("ä", 12), 80, 40, 16, monoMeasure)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	if got := len([]rune(lines[0])); got != 10 {
		t.Errorf("First line should hold 10 runes, got %d (%q)", got, lines[0])
	}
	if lines[1] != "ää" {
		t.Errorf("Multi-byte runes must not be cut: got %q", lines[1])
	}
}

func TestFit_EllipsisOnLineBudget(t *testing.T) {
	// boxH allows a single 16px line; the overflow must be marked.
	lines := Fit("hello world foo", 80, 16, 16, monoMeasure)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %q", lines)
	}
	if !strings.HasSuffix(lines[0], "...") {
		t.Errorf("Truncated text must end in an ellipsis, got %q", lines[0])
	}
	if monoMeasure(lines[0]) > 80 {
		t.Errorf("Ellipsized line overflows the box: %q", lines[0])
	}
}

func TestFit_EllipsisTrimsToFit(t *testing.T) {
	lines := Fit(strings.Repeat("a", 15), 80, 16, 16, monoMeasure)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %q", lines)
	}
	if lines[0] != "aaaaaaa..." {
		t.Errorf("Line should be trimmed until the ellipsis fits, got %q", lines[0])
	}
}

func TestFit_LineBudgetFromBoxHeight(t *testing.T) {
	// 50px of height at 16px per line is a 3 line budget.
	long := strings.Repeat("abcdefghij ", 10)
	lines := Fit(long, 80, 50, 16, monoMeasure)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[2], "...") {
		t.Errorf("Last line should be ellipsized, got %q", lines[2])
	}
}

func TestFit_EveryLineFits(t *testing.T) {
	inputs := []string{
		"short",
		"a file name with several words.png",
		strings.Repeat("x", 100),
		"mixed " + strings.Repeat("y", 30) + " tail words here",
	}
	for _, in := range inputs {
		for _, boxW := range []float32{40, 80, 200} {
			for _, line := range Fit(in, boxW, 64, 16, monoMeasure) {
				if monoMeasure(line) > boxW {
					t.Errorf("Line %q overflows %vpx box (input %q)", line, boxW, in)
				}
			}
		}
	}
}

func TestFit_EmptyAndBlank(t *testing.T) {
	if lines := Fit("", 80, 40, 16, monoMeasure); lines != nil {
		t.Errorf("Empty text should produce no lines, got %q", lines)
	}
	if lines := Fit("   ", 80, 40, 16, monoMeasure); lines != nil {
		t.Errorf("Blank text should produce no lines, got %q", lines)
	}
}

func TestFit_BoxNarrowerThanOneRune(t *testing.T) {
	if lines := Fit("abc", 4, 40, 16, monoMeasure); lines != nil {
		t.Errorf("Nothing fits a 4px box, got %q", lines)
	}
}
