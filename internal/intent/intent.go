// Package intent classifies free-text utterances into a closed set of
// EHS assistant intents. Lexical keyword rules decide the common and
// safety-critical paths deterministically; embedding similarity against
// canonical example utterances extends coverage for paraphrases when an
// embedding backend is live.
package intent

// Intent identifies what the user is trying to do.
type Intent string

const (
	IncidentReporting Intent = "incident_reporting"
	SafetyConcern     Intent = "safety_concern"
	SDSLookup         Intent = "sds_lookup"
	Emergency         Intent = "emergency"

	// General labels utterances that match no rule or example. Classify
	// reports that case as an empty Intent; callers apply this label
	// when presenting the result.
	General Intent = "general"
)

// Result is the outcome of classifying one utterance. Intent is empty
// when no intent could be determined; Confidence is always in [0,1].
type Result struct {
	Intent     Intent  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Matched reports whether classification produced an intent.
func (r Result) Matched() bool { return r.Intent != "" }
