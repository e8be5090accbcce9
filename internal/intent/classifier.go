package intent

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/safetydesk/safetydesk/internal/embeddings"
)

// Classifier maps an utterance to an intent plus a confidence score.
// It is safe for concurrent use.
type Classifier struct {
	provider  *embeddings.Provider
	threshold float64

	exampleOnce sync.Once
	exampleVecs map[Intent][][]float32
}

// NewClassifier creates a classifier. provider may be a degraded
// embeddings.Provider; the lexical rule pass works regardless.
// threshold is the minimum embedding similarity for the fallback pass
// to select an intent (0 means the default of 0.5).
func NewClassifier(provider *embeddings.Provider, threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Classifier{provider: provider, threshold: threshold}
}

// Classify returns the intent for text. The lexical rule pass wins when
// any rule fires; otherwise the embedding fallback runs if a backend is
// live. Returns an empty Result intent when nothing matches.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Result{}
	}

	tokens := tokenSet(normalized)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if matchKeyword(normalized, tokens, kw) {
				return Result{Intent: r.intent, Confidence: r.confidence}
			}
		}
	}

	if c.provider == nil || !c.provider.IsAvailable() {
		return Result{}
	}
	return c.classifyByEmbedding(ctx, normalized)
}

// classifyByEmbedding picks the intent whose canonical examples are most
// similar to the utterance, if the best similarity clears the threshold.
func (c *Classifier) classifyByEmbedding(ctx context.Context, normalized string) Result {
	c.embedExamples(ctx)

	query := c.provider.Embed(ctx, normalized)
	if embeddings.IsZero(query) {
		return Result{}
	}

	var best Intent
	var bestSim float64
	// Fixed evaluation order keeps ties deterministic.
	for _, r := range rules {
		for _, vec := range c.exampleVecs[r.intent] {
			if sim := float64(c.provider.Similarity(query, vec)); sim > bestSim {
				best, bestSim = r.intent, sim
			}
		}
	}

	if bestSim < c.threshold {
		return Result{Confidence: bestSim}
	}
	return Result{Intent: best, Confidence: bestSim}
}

// embedExamples computes canonical example vectors once, on first need.
func (c *Classifier) embedExamples(ctx context.Context) {
	c.exampleOnce.Do(func() {
		c.exampleVecs = make(map[Intent][][]float32, len(canonicalExamples))
		for in, examples := range canonicalExamples {
			c.exampleVecs[in] = c.provider.EmbedMany(ctx, examples)
		}
	})
}

// matchKeyword reports whether kw appears in the utterance. Multi-word
// keywords match as substrings; single words must match a whole token so
// that e.g. "reportedly" does not fire the "report" family of rules.
func matchKeyword(normalized string, tokens map[string]bool, kw string) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(normalized, kw)
	}
	return tokens[kw]
}

func tokenSet(normalized string) map[string]bool {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// chemicalPatterns are tried in order: the most specific shape first,
// the loosest last.
var chemicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:sds|msds|safety data sheet|datasheet)\s+for\s+([a-z]+(?:\s+[a-z]+)?)`),
	regexp.MustCompile(`([a-z]+(?:\s+[a-z]+)?)\s+(?:sds|msds|safety data sheet|datasheet)`),
	regexp.MustCompile(`(?:find|need|looking for)\s+([a-z]+(?:\s+[a-z]+)?)`),
}

var chemicalStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"this": true, "that": true, "a": true, "an": true,
	"my": true, "our": true, "some": true,
}

// ExtractChemicalName pulls a likely chemical name out of an SDS-lookup
// utterance. Returns "" when nothing plausible is found.
func ExtractChemicalName(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, pat := range chemicalPatterns {
		m := pat.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) <= 2 || containsStopword(candidate) {
			continue
		}
		return titleCase(candidate)
	}
	return ""
}

func containsStopword(candidate string) bool {
	for _, w := range strings.Fields(candidate) {
		if chemicalStopwords[w] {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
