package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"botpanel/internal/classifier"

	"go.uber.org/zap"
)

type fakeGenerator struct {
	classifyResult *AIResult
	classifyErr    error
	describeResult string
	describeErr    error
	classifyCalls  int
}

func (f *fakeGenerator) ClassifyContent(ctx context.Context, messageText, filename string) (*AIResult, error) {
	f.classifyCalls++
	return f.classifyResult, f.classifyErr
}

func (f *fakeGenerator) DescribeContent(ctx context.Context, title, kind string, chapter *int, provider string) (string, error) {
	return f.describeResult, f.describeErr
}

func TestAnalyzeWithoutGenerator(t *testing.T) {
	a := New(nil, nil, zap.NewNop())

	got := a.Analyze(context.Background(), "Jinx cap 45", "", "Proveedor X")

	if got.Title != "Jinx" {
		t.Errorf("Title = %q, want Jinx", got.Title)
	}
	if got.Type != classifier.TypeChapter {
		t.Errorf("Type = %q, want %q", got.Type, classifier.TypeChapter)
	}
	if got.Method != classifier.MethodKnownTitle {
		t.Errorf("Method = %q, want %q", got.Method, classifier.MethodKnownTitle)
	}
	if got.Description != "Jinx - capitulo 45" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestAnalyzeGracefulDegradation(t *testing.T) {
	gen := &fakeGenerator{classifyErr: errors.New("network down")}
	a := New(gen, nil, zap.NewNop())

	got := a.Analyze(context.Background(), "texto sin pistas", "", "Proveedor X")

	if gen.classifyCalls != 1 {
		t.Fatalf("classifyCalls = %d, want 1", gen.classifyCalls)
	}
	if got.Method != MethodFallback {
		t.Errorf("Method = %q, want %q", got.Method, MethodFallback)
	}
	if got.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", got.Confidence)
	}
	if got.Title != classifier.UnknownTitle {
		t.Errorf("Title = %q, want %q", got.Title, classifier.UnknownTitle)
	}
	if got.Description == "" {
		t.Error("Description is empty")
	}
}

func TestAnalyzeAcceptsConfidentAI(t *testing.T) {
	ch := 12
	gen := &fakeGenerator{
		classifyResult: &AIResult{Title: "Omniscient Reader", Type: classifier.TypeChapter, Chapter: &ch, Confidence: 0.9},
		describeResult: "Omniscient Reader, nuevo capitulo 12",
	}
	a := New(gen, nil, zap.NewNop())

	got := a.Analyze(context.Background(), "texto sin pistas", "", "Proveedor X")

	if got.Method != MethodAI {
		t.Errorf("Method = %q, want %q", got.Method, MethodAI)
	}
	if got.Title != "Omniscient Reader" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Description != "Omniscient Reader, nuevo capitulo 12" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestAnalyzeRejectsLowConfidenceAI(t *testing.T) {
	gen := &fakeGenerator{
		classifyResult: &AIResult{Title: "Adivinado", Type: classifier.TypeExtra, Confidence: 0.4},
	}
	a := New(gen, nil, zap.NewNop())

	got := a.Analyze(context.Background(), "texto sin pistas", "", "Proveedor X")

	if got.Title != classifier.UnknownTitle {
		t.Errorf("Title = %q, want traditional %q", got.Title, classifier.UnknownTitle)
	}
	if got.Method == MethodAI {
		t.Error("low-confidence AI result was accepted")
	}
}

func TestAnalyzeSkipsAIForConfidentClassifier(t *testing.T) {
	gen := &fakeGenerator{classifyErr: errors.New("should not be called")}
	never := func(string, string) bool { return false }
	a := New(gen, never, zap.NewNop())

	got := a.Analyze(context.Background(), "Jinx cap 45", "", "Proveedor X")

	if gen.classifyCalls != 0 {
		t.Errorf("classifyCalls = %d, want 0", gen.classifyCalls)
	}
	if got.Title != "Jinx" {
		t.Errorf("Title = %q, want Jinx", got.Title)
	}
}

func TestFallbackDescriptionLengthCap(t *testing.T) {
	chapter := 45
	long := strings.Repeat("Nano Machine ", 20)

	got := FallbackDescription(long, "capitulo", &chapter)
	if len(got) > 100 {
		t.Errorf("len = %d, want <= 100", len(got))
	}

	short := FallbackDescription("Jinx", "capitulo", &chapter)
	if short != "Jinx - capitulo 45" {
		t.Errorf("short = %q", short)
	}
}

func TestDefaultEscalation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     bool
	}{
		{"plain text", "hola", "", false},
		{"non ascii", "capítulo nuevo", "", true},
		{"genre keyword", "nuevo webtoon", "", true},
		{"scanlation jargon", "version raw", "", true},
		{"long cryptic filename", "", "x9f3-release-final-v2.bin", true},
		{"long but common extension", "", "una_imagen_con_nombre_largo.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultEscalation(tt.text, tt.filename); got != tt.want {
				t.Errorf("DefaultEscalation(%q, %q) = %v, want %v", tt.text, tt.filename, got, tt.want)
			}
		})
	}
}
