package round

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// fixedSource always draws the same offset, clamped to the span.
type fixedSource struct {
	draw uint64
}

func (f fixedSource) Uint64N(n uint64) uint64 {
	if f.draw >= n {
		return n - 1
	}
	return f.draw
}

func (f fixedSource) Uint64() uint64 { return f.draw }

func TestGenerate_WithinRange(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewPCG(1, 2)))

	ranges := [][2]int{{1, 100}, {-50, 50}, {0, 0}, {7, 8}, {-10, -1}}
	for _, r := range ranges {
		for range 500 {
			n, err := gen.Generate(r[0], r[1])
			if err != nil {
				t.Fatalf("Generate(%d, %d): %v", r[0], r[1], err)
			}
			if n < r[0] || n > r[1] {
				t.Fatalf("Generate(%d, %d) = %d, out of range", r[0], r[1], n)
			}
		}
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	gen := NewGenerator(nil)
	if _, err := gen.Generate(10, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestGenerate_SingleValue(t *testing.T) {
	gen := NewGenerator(fixedSource{draw: 99})
	n, err := gen.Generate(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Generate(1, 1) = %d, want 1", n)
	}
}

func TestGenerate_ExtremeBounds(t *testing.T) {
	gen := NewGenerator(fixedSource{draw: 3})

	n, err := gen.Generate(math.MinInt, math.MaxInt)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("full range draw = %d, want 3", n)
	}

	n, err = gen.Generate(math.MaxInt-1, math.MaxInt)
	if err != nil {
		t.Fatal(err)
	}
	if n != math.MaxInt {
		t.Errorf("top range draw = %d, want MaxInt", n)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		target  int
		want    bool
		wantErr error
	}{
		{"exact", "42", 42, true, nil},
		{"padded", "  42\t", 42, true, nil},
		{"negative", "-3", -3, true, nil},
		{"wrong", "41", 42, false, nil},
		{"not a number", "forty-two", 42, false, nil},
		{"decimal suffix", "7.0", 7, true, nil},
		{"trailing letters", "7abc", 7, true, nil},
		{"plus sign", "+7", 7, true, nil},
		{"sign only", "-", 0, false, nil},
		{"overflow", "99999999999999999999", 42, false, nil},
		{"empty", "", 42, false, ErrEmptyAnswer},
		{"whitespace", "   ", 42, false, ErrEmptyAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.input, tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q, %d) = %v, want %v", tt.input, tt.target, got, tt.want)
			}
		})
	}
}

func TestStatsRecord(t *testing.T) {
	var s Stats
	for _, correct := range []bool{true, true, false, true} {
		s = s.Record(correct)
	}

	if s.Attempts != 4 || s.Correct != 3 || s.Incorrect() != 1 {
		t.Errorf("got %+v, want 4 attempts, 3 correct", s)
	}
	if s.Streak != 1 {
		t.Errorf("Streak = %d, want 1", s.Streak)
	}
	if s.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", s.BestStreak)
	}
	if got := s.AccuracyString(); got != "75.0%" {
		t.Errorf("AccuracyString = %q, want 75.0%%", got)
	}
}

func TestStatsAccuracy_NoAttempts(t *testing.T) {
	if got := (Stats{}).Accuracy(); got != 0 {
		t.Errorf("Accuracy = %v, want 0", got)
	}
}

func TestNextStreakMilestone(t *testing.T) {
	tests := []struct {
		current, want int
	}{
		{0, 5}, {4, 5}, {5, 10}, {14, 15}, {19, 20}, {20, 25}, {27, 30},
	}
	for _, tt := range tests {
		if got := NextStreakMilestone(tt.current); got != tt.want {
			t.Errorf("NextStreakMilestone(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	s.Min, s.Max = 10, 5
	if !errors.Is(s.Validate(), ErrInvalidRange) {
		t.Error("expected ErrInvalidRange")
	}

	s = DefaultSettings()
	s.PlaybackRate = 3
	if s.Validate() == nil {
		t.Error("expected unsupported rate error")
	}

	s = DefaultSettings()
	s.Backend = "carrier-pigeon"
	if s.Validate() == nil {
		t.Error("expected unknown backend error")
	}
}

func TestBaseLanguage(t *testing.T) {
	for in, want := range map[string]string{"es-ES": "es", "zh_CN": "zh", "EN": "en", "pt-BR": "pt"} {
		if got := BaseLanguage(in); got != want {
			t.Errorf("BaseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLanguageLabel(t *testing.T) {
	l, ok := FindLanguage(DefaultLanguages, "es-es")
	if !ok {
		t.Fatal("es-ES not in catalogue")
	}
	if got := l.Label(); got != "Spanish (Español)" {
		t.Errorf("Label = %q", got)
	}
	en, _ := FindLanguage(DefaultLanguages, "en-US")
	if got := en.Label(); got != "English" {
		t.Errorf("Label = %q", got)
	}
}
