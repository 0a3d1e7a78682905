// Package classifier maps free text and filenames from content groups to a
// structured taxonomy (title, content type, chapter number). It is pure:
// no I/O, no randomness, identical input always yields identical output.
package classifier

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Content types.
const (
	TypeChapter      = "capitulo"
	TypeExtra        = "extra"
	TypeIllustration = "ilustracion"
	TypePack         = "pack"
	TypeUnknown      = "desconocido"
)

// UnknownTitle is the sentinel for an unresolved title.
const UnknownTitle = "Desconocido"

// Detection methods, carried through to the stored contribution.
const (
	MethodKnownTitle  = "known-title"
	MethodPattern     = "pattern"
	MethodTraditional = "tradicional"
)

// Confidence levels are a coarse heuristic, not a calibrated probability.
const (
	ConfidenceHigh   = 0.9
	ConfidenceMedium = 0.7
	ConfidenceLow    = 0.3
)

// Result is the structured outcome of a classification.
type Result struct {
	Title      string
	Type       string
	Chapter    *int
	Confidence float64
	Method     string
}

// Curated title list. Substring match beats any pattern extraction.
var knownTitles = []string{
	"jinx", "painter of the night", "killing stalking", "bj alex",
	"cherry blossoms after winter", "love is an illusion", "warehouse",
	"sign", "pearl boy", "banana scandal", "semantic error", "viewfinder",
	"under the green light", "define the relationship", "love shuttle",
	"at the end of the road", "walk on water", "royal servant",
	"blood bank", "ten count", "given", "doukyuusei", "hitorijime my hero",
	"solo leveling", "tower of god", "the god of high school", "noblesse",
	"lookism", "sweet home", "bastard", "pigpen", "tales of demons and gods",
}

var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:manhwa|manga|webtoon)[\s\-_]*([a-z\s]+?)[\s\-_]*(?:cap|chapter|ch|episodio|ep)`),
		regexp.MustCompile(`(?i)([a-z\s]+?)[\s\-_]*(?:cap|chapter|ch|episodio|ep)[\s\-_]*\d+`),
		regexp.MustCompile(`(?i)([a-z\s]{3,30})[\s\-_]*(?:extra|special|bonus)`),
	}

	chapterRe      = regexp.MustCompile(`(?i)(?:cap|chapter|ch|episodio|ep)[\s\-_]*(\d+)`)
	extraRe        = regexp.MustCompile(`(?i)(?:extra|special|bonus|omake|side)`)
	illustrationRe = regexp.MustCompile(`(?i)(?:ilustr|art|fanart|cover|portada)`)
	packRe         = regexp.MustCompile(`(?i)(?:pack|bundle|collection|vol|volume)`)
)

var (
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	documentExtensions = map[string]bool{".pdf": true, ".zip": true, ".rar": true, ".cbz": true, ".cbr": true, ".7z": true}
)

// Classify derives title, content type and chapter number from the message
// text and filename of an inbound content drop.
func Classify(messageText, filename string) Result {
	buf := strings.ToLower(messageText + " " + filename)

	title, method := detectTitle(buf)
	chapter := extractChapter(buf)

	confidence := ConfidenceLow
	switch method {
	case MethodKnownTitle:
		confidence = ConfidenceHigh
	case MethodPattern:
		confidence = ConfidenceMedium
	}

	return Result{
		Title:      title,
		Type:       detectType(buf, filename),
		Chapter:    chapter,
		Confidence: confidence,
		Method:     method,
	}
}

func detectTitle(buf string) (string, string) {
	for _, t := range knownTitles {
		if strings.Contains(buf, t) {
			return capitalize(t), MethodKnownTitle
		}
	}
	for _, p := range titlePatterns {
		if m := p.FindStringSubmatch(buf); m != nil && strings.TrimSpace(m[1]) != "" {
			return capitalize(strings.TrimSpace(m[1])), MethodPattern
		}
	}
	return UnknownTitle, MethodTraditional
}

// detectType applies ordered keyword rules; a chapter-number pattern beats
// every other cue. File extensions decide only when no keyword fires.
func detectType(buf, filename string) string {
	switch {
	case chapterRe.MatchString(buf):
		return TypeChapter
	case extraRe.MatchString(buf):
		return TypeExtra
	case illustrationRe.MatchString(buf):
		return TypeIllustration
	case packRe.MatchString(buf):
		return TypePack
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return TypeIllustration
	case documentExtensions[ext]:
		return TypeChapter
	}
	return TypeUnknown
}

func extractChapter(buf string) *int {
	m := chapterRe.FindStringSubmatch(buf)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
