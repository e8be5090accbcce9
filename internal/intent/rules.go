package intent

// rule is one lexical keyword rule. Single-word keywords match whole
// tokens; multi-word keywords match as phrases. Rules are evaluated in
// slice order, which encodes the fixed tie-break priority:
// emergency > incident_reporting > safety_concern > sds_lookup.
type rule struct {
	intent     Intent
	confidence float64
	keywords   []string
}

var rules = []rule{
	{
		intent:     Emergency,
		confidence: 0.95,
		keywords: []string{
			"emergency", "911", "fire", "explosion", "evacuate",
			"evacuation", "ambulance", "life threatening",
		},
	},
	{
		intent:     IncidentReporting,
		confidence: 0.90,
		keywords: []string{
			"incident", "accident", "injury", "injured", "hurt",
			"damage", "spill", "crash", "collision", "near miss",
			"report an incident", "report incident",
		},
	},
	{
		intent:     SafetyConcern,
		confidence: 0.85,
		keywords: []string{
			"safety concern", "unsafe", "hazard", "hazardous",
			"dangerous", "concern", "observation",
		},
	},
	{
		intent:     SDSLookup,
		confidence: 0.85,
		keywords: []string{
			"sds", "msds", "safety data sheet", "chemical",
			"datasheet",
		},
	},
}

// canonicalExamples are per-intent example utterances used for the
// embedding-similarity fallback when no lexical rule fires.
// Examples returns the canonical example utterances per intent, for
// surfaces that show users what they can say.
func Examples() map[Intent][]string {
	out := make(map[Intent][]string, len(canonicalExamples))
	for in, ex := range canonicalExamples {
		out[in] = append([]string(nil), ex...)
	}
	return out
}

var canonicalExamples = map[Intent][]string{
	IncidentReporting: {
		"I need to report a workplace injury",
		"Something went wrong in the warehouse and a worker got hurt",
		"A forklift backed into the loading dock door",
		"There was a chemical release in the storage area",
	},
	SafetyConcern: {
		"I want to flag something risky I noticed on the floor",
		"The guard rail on the mezzanine looks loose",
		"Workers are not wearing their protective equipment",
	},
	SDSLookup: {
		"Where can I find handling information for acetone",
		"I need the data sheet for this solvent",
		"What are the storage requirements for this substance",
	},
	Emergency: {
		"Someone is badly hurt and needs help right now",
		"We need to get everyone out of the building",
	},
}
