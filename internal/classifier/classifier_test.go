package classifier

import (
	"reflect"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		want     Result
	}{
		{
			name: "known title with chapter",
			text: "Jinx cap 45",
			want: Result{
				Title:      "Jinx",
				Type:       TypeChapter,
				Chapter:    intPtr(45),
				Confidence: ConfidenceHigh,
				Method:     MethodKnownTitle,
			},
		},
		{
			name:     "pack keyword from filename",
			filename: "bl_pack_vol3.zip",
			want: Result{
				Title:      UnknownTitle,
				Type:       TypePack,
				Confidence: ConfidenceLow,
				Method:     MethodTraditional,
			},
		},
		{
			name:     "illustration keyword beats image extension",
			text:     "fanart cover",
			filename: "img.png",
			want: Result{
				Title:      UnknownTitle,
				Type:       TypeIllustration,
				Confidence: ConfidenceLow,
				Method:     MethodTraditional,
			},
		},
		{
			name: "pattern extraction",
			text: "manhwa wind breaker cap 120",
			want: Result{
				Title:      "Wind Breaker",
				Type:       TypeChapter,
				Chapter:    intPtr(120),
				Confidence: ConfidenceMedium,
				Method:     MethodPattern,
			},
		},
		{
			name:     "image extension fallback",
			filename: "photo.jpg",
			want: Result{
				Title:      UnknownTitle,
				Type:       TypeIllustration,
				Confidence: ConfidenceLow,
				Method:     MethodTraditional,
			},
		},
		{
			name:     "archive extension fallback",
			filename: "descarga.pdf",
			want: Result{
				Title:      UnknownTitle,
				Type:       TypeChapter,
				Confidence: ConfidenceLow,
				Method:     MethodTraditional,
			},
		},
		{
			name: "nothing matches",
			text: "hola",
			want: Result{
				Title:      UnknownTitle,
				Type:       TypeUnknown,
				Confidence: ConfidenceLow,
				Method:     MethodTraditional,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, tt.filename)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q, %q) = %+v, want %+v", tt.text, tt.filename, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("Solo Leveling ep 110 raw", "solo_leveling_110.pdf")
	for i := 0; i < 50; i++ {
		again := Classify("Solo Leveling ep 110 raw", "solo_leveling_110.pdf")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged: %+v != %+v", i, again, first)
		}
	}
}

func TestKnownTitlePrecedence(t *testing.T) {
	// A known title in the buffer wins over whatever a pattern would extract.
	got := Classify("webtoon painter of the night chapter 3", "")
	if got.Title != "Painter Of The Night" {
		t.Errorf("Title = %q, want %q", got.Title, "Painter Of The Night")
	}
	if got.Method != MethodKnownTitle {
		t.Errorf("Method = %q, want %q", got.Method, MethodKnownTitle)
	}
}

func TestChapterTypePrecedence(t *testing.T) {
	// cap 12 forces the chapter type even with an illustration keyword present.
	got := Classify("fanart cap 12", "")
	if got.Type != TypeChapter {
		t.Errorf("Type = %q, want %q", got.Type, TypeChapter)
	}
	if got.Chapter == nil || *got.Chapter != 12 {
		t.Errorf("Chapter = %v, want 12", got.Chapter)
	}
}
