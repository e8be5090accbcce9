package capa

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/safetydesk/safetydesk/internal/embeddings"
)

// Suggestion is one ranked corrective/preventive action. Rationale is
// always non-empty: it names the matched keywords and/or the semantic
// similarity that drove the score.
type Suggestion struct {
	Action     string  `json:"action_text"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Scoring weights: lexical overlap dominates, embedding similarity is a
// smoothing term when the backend is live.
const (
	lexicalWeight   = 0.7
	embeddingWeight = 0.3
)

const collectionName = "capa-candidates"

// Engine scores the candidate library against incident descriptions.
// Callers must reject empty or whitespace-only descriptions before
// calling Suggest; that precondition is not re-checked here.
type Engine struct {
	provider *embeddings.Provider
	topK     int

	indexOnce  sync.Once
	collection *chromem.Collection
}

// NewEngine creates a suggestion engine. topK bounds the shortlist
// length (0 means the default of 3).
func NewEngine(provider *embeddings.Provider, topK int) *Engine {
	if topK <= 0 {
		topK = 3
	}
	return &Engine{provider: provider, topK: topK}
}

// Suggest returns the top-K candidates ranked by combined lexical and
// embedding relevance to description, each with a rationale. Embedding
// failures degrade to lexical-only scoring and are logged, never
// surfaced.
func (e *Engine) Suggest(ctx context.Context, description string) []Suggestion {
	normalized := strings.ToLower(description)
	sims := e.similarities(ctx, description)

	type scored struct {
		idx  int
		conf float64
		why  string
	}

	var results []scored
	for i, cand := range library {
		matched := matchedKeywords(normalized, cand.Keywords)
		lex := float64(len(matched)) / float64(len(cand.Keywords))

		conf := lex
		sim, haveSim := sims[cand.ID]
		if haveSim {
			conf = lexicalWeight*lex + embeddingWeight*sim
		}
		if conf <= 0 {
			continue
		}
		if conf > 1 {
			conf = 1
		}

		results = append(results, scored{
			idx:  i,
			conf: conf,
			why:  rationale(matched, sim, haveSim),
		})
	}

	// Stable sort keeps library order as the tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].conf > results[j].conf
	})
	if len(results) > e.topK {
		results = results[:e.topK]
	}

	suggestions := make([]Suggestion, len(results))
	for i, r := range results {
		cand := library[r.idx]
		suggestions[i] = Suggestion{
			Action:     cand.Action,
			Category:   cand.Category,
			Confidence: r.conf,
			Rationale:  r.why,
		}
	}
	return suggestions
}

// similarities returns per-candidate cosine similarity to description,
// clamped to [0,1]. Returns nil when no embedding backend is live.
func (e *Engine) similarities(ctx context.Context, description string) map[string]float64 {
	if !e.provider.IsAvailable() {
		return nil
	}
	e.buildIndex(ctx)
	if e.collection == nil {
		return nil
	}

	results, err := e.collection.Query(ctx, description, len(library), nil, nil)
	if err != nil {
		log.Printf("capa: vector query failed, scoring lexically: %v", err)
		return nil
	}

	sims := make(map[string]float64, len(results))
	for _, r := range results {
		sim := float64(r.Similarity)
		if sim < 0 {
			sim = 0
		} else if sim > 1 {
			sim = 1
		}
		sims[r.ID] = sim
	}
	return sims
}

// buildIndex embeds the candidate library into a chromem collection
// once, on first use with a live backend.
func (e *Engine) buildIndex(ctx context.Context) {
	e.indexOnce.Do(func() {
		db := chromem.NewDB()
		col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(e.provider))
		if err != nil {
			log.Printf("capa: creating candidate index failed: %v", err)
			return
		}

		docs := make([]chromem.Document, len(library))
		for i, cand := range library {
			docs[i] = chromem.Document{
				ID:      cand.ID,
				Content: cand.Action + " " + strings.Join(cand.Keywords, " "),
			}
		}
		if err := col.AddDocuments(ctx, docs, 1); err != nil {
			log.Printf("capa: indexing candidates failed: %v", err)
			return
		}
		e.collection = col
	})
}

func matchedKeywords(normalized string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func rationale(matched []string, sim float64, haveSim bool) string {
	switch {
	case len(matched) > 0 && haveSim:
		return fmt.Sprintf("matched keywords: %s; description similarity %.2f", strings.Join(matched, ", "), sim)
	case len(matched) > 0:
		return "matched keywords: " + strings.Join(matched, ", ")
	default:
		return fmt.Sprintf("semantically similar to the description (%.2f)", sim)
	}
}
