// Package analyzer combines deterministic classification with an optional
// text-generation escalation for low-confidence content. The external call
// is a quality enhancement only: every failure is absorbed here and the
// caller always receives a complete structured result.
package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"botpanel/internal/classifier"

	"go.uber.org/zap"
)

// Analysis methods beyond what the classifier reports.
const (
	MethodAI       = "ai"
	MethodFallback = "fallback"
)

// acceptThreshold gates AI results: below it the traditional result stands.
const acceptThreshold = 0.6

const maxDescriptionLen = 100

// AIResult is the structured answer expected from the generator.
type AIResult struct {
	Title      string  `json:"titulo"`
	Type       string  `json:"tipo"`
	Chapter    *int    `json:"capitulo"`
	Confidence float64 `json:"confianza"`
}

// Generator is the external text-generation collaborator. It may be absent
// entirely; the Analyzer then works from the classifier alone.
type Generator interface {
	ClassifyContent(ctx context.Context, messageText, filename string) (*AIResult, error)
	DescribeContent(ctx context.Context, title, kind string, chapter *int, provider string) (string, error)
}

// EscalationPredicate decides whether an input is complex enough to be worth
// an external call even when the classifier found a title.
type EscalationPredicate func(messageText, filename string) bool

var (
	nonASCIIRe   = regexp.MustCompile(`[^\x00-\x7F]`)
	genreRe      = regexp.MustCompile(`(?i)(?:manhwa|webtoon|yaoi|bl|shounen|seinen)`)
	scanlationRe = regexp.MustCompile(`(?i)(?:raw|scan|translation)`)
	commonExtRe  = regexp.MustCompile(`(?i)\.(pdf|jpg|png|jpeg)$`)
)

// DefaultEscalation flags non-ASCII text, genre keywords, scanlation jargon
// and long cryptic filenames.
func DefaultEscalation(messageText, filename string) bool {
	text := strings.ToLower(messageText + " " + filename)
	if nonASCIIRe.MatchString(text) || genreRe.MatchString(text) || scanlationRe.MatchString(text) {
		return true
	}
	return len(filename) > 20 && !commonExtRe.MatchString(filename)
}

// Analysis is the final structured description of one content drop.
type Analysis struct {
	Title       string
	Type        string
	Chapter     *int
	Description string
	Confidence  float64
	Method      string
}

type Analyzer struct {
	gen      Generator
	escalate EscalationPredicate
	logger   *zap.Logger
}

// New builds an Analyzer. gen may be nil (no external calls); escalate may
// be nil to use DefaultEscalation.
func New(gen Generator, escalate EscalationPredicate, logger *zap.Logger) *Analyzer {
	if escalate == nil {
		escalate = DefaultEscalation
	}
	return &Analyzer{gen: gen, escalate: escalate, logger: logger}
}

// Analyze classifies the input and never returns an error: external-call
// failures degrade to the deterministic result with a fallback tag.
func (a *Analyzer) Analyze(ctx context.Context, messageText, filename, provider string) *Analysis {
	trad := classifier.Classify(messageText, filename)

	result := &Analysis{
		Title:      trad.Title,
		Type:       trad.Type,
		Chapter:    trad.Chapter,
		Confidence: trad.Confidence,
		Method:     trad.Method,
	}

	if a.gen != nil && (trad.Title == classifier.UnknownTitle || a.escalate(messageText, filename)) {
		ai, err := a.gen.ClassifyContent(ctx, messageText, filename)
		switch {
		case err != nil:
			a.logger.Warn("AI classification failed, keeping traditional result",
				zap.Error(err), zap.String("text", messageText))
			result.Method = MethodFallback
			result.Confidence = 0.5
		case ai.Confidence > acceptThreshold:
			result.Title = ai.Title
			result.Type = ai.Type
			result.Chapter = ai.Chapter
			result.Confidence = ai.Confidence
			result.Method = MethodAI
		}
	}

	result.Description = a.describe(ctx, result, provider)
	return result
}

func (a *Analyzer) describe(ctx context.Context, r *Analysis, provider string) string {
	if a.gen != nil && r.Method == MethodAI {
		desc, err := a.gen.DescribeContent(ctx, r.Title, r.Type, r.Chapter, provider)
		if err == nil && desc != "" && len(desc) <= maxDescriptionLen {
			return desc
		}
		if err != nil {
			a.logger.Warn("AI description failed, using deterministic fallback", zap.Error(err))
		}
	}
	return FallbackDescription(r.Title, r.Type, r.Chapter)
}

// FallbackDescription is the deterministic one-liner used whenever the
// generator is absent, fails, or over-delivers. The length cap applies
// here too: an AI-accepted title can be arbitrarily long.
func FallbackDescription(title, kind string, chapter *int) string {
	var desc string
	if chapter != nil {
		desc = fmt.Sprintf("%s - %s %d", title, kind, *chapter)
	} else {
		desc = fmt.Sprintf("%s - %s", title, kind)
	}
	if len(desc) > maxDescriptionLen {
		desc = desc[:maxDescriptionLen]
	}
	return desc
}
