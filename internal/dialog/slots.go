package dialog

import (
	"fmt"
	"strings"
)

// SlotKind selects the validation applied to a slot answer.
type SlotKind int

const (
	// SlotText accepts any non-empty string up to MaxLen runes.
	SlotText SlotKind = iota
	// SlotChoice accepts one of Choices, matched case-insensitively.
	// Spaces and hyphens in answers match underscores in choice values.
	SlotChoice
)

// Slot describes one required field of a slot-filling intent.
type Slot struct {
	Name    string
	Prompt  string
	Kind    SlotKind
	Choices []string
	MaxLen  int
}

// Validate checks answer against the slot's rules. On success it
// returns the canonical value to store and an empty reprompt. On
// failure it returns a clarifying reprompt message and no value; an
// invalid answer is a first-class outcome, not an error.
func (s Slot) Validate(answer string) (value, reprompt string) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", "I didn't catch that. " + s.Prompt
	}

	switch s.Kind {
	case SlotChoice:
		canon := canonicalChoice(answer)
		for _, c := range s.Choices {
			if canon == c {
				return c, ""
			}
		}
		return "", fmt.Sprintf("Please pick one of: %s.", strings.Join(s.Choices, ", "))
	default:
		max := s.MaxLen
		if max == 0 {
			max = 2000
		}
		if len([]rune(answer)) > max {
			return "", fmt.Sprintf("That's a bit long. Please keep it under %d characters.", max)
		}
		return answer, ""
	}
}

func canonicalChoice(answer string) string {
	canon := strings.ToLower(strings.TrimSpace(answer))
	canon = strings.ReplaceAll(canon, "-", " ")
	canon = strings.Join(strings.Fields(canon), "_")
	return canon
}

// IncidentTypes are the accepted values for the incident_type slot.
var IncidentTypes = []string{
	"injury", "vehicle", "near_miss", "property",
	"environmental", "security", "depot", "other",
}

// incidentBaseSlots are asked for every incident, in order.
var incidentBaseSlots = []Slot{
	{
		Name:    "incident_type",
		Prompt:  "What kind of incident is it? (injury, vehicle, near miss, property, environmental, security, depot, other)",
		Kind:    SlotChoice,
		Choices: IncidentTypes,
	},
	{
		Name:   "description",
		Prompt: "Please describe what happened in as much detail as you can.",
		Kind:   SlotText,
		MaxLen: 2000,
	},
	{
		Name:   "location",
		Prompt: "Where did this happen? (building, area, bay...)",
		Kind:   SlotText,
		MaxLen: 200,
	},
	{
		Name:   "occurred_at",
		Prompt: "When did it happen? (date and approximate time)",
		Kind:   SlotText,
		MaxLen: 100,
	},
}

// incidentTypeSlots are appended once incident_type is known.
var incidentTypeSlots = map[string][]Slot{
	"injury": {
		{Name: "injured_person", Prompt: "Who was injured? (name or role)", Kind: SlotText, MaxLen: 200},
		{
			Name:    "injury_severity",
			Prompt:  "How severe is the injury? (first aid, medical treatment, lost time, fatality)",
			Kind:    SlotChoice,
			Choices: []string{"first_aid", "medical_treatment", "lost_time", "fatality"},
		},
	},
	"vehicle": {
		{Name: "vehicle_ids", Prompt: "Which vehicle(s) were involved? (fleet numbers or plates)", Kind: SlotText, MaxLen: 200},
		{Name: "driver_name", Prompt: "Who was driving?", Kind: SlotText, MaxLen: 200},
	},
	"environmental": {
		{Name: "material_involved", Prompt: "What material was spilled or released?", Kind: SlotText, MaxLen: 200},
		{Name: "quantity", Prompt: "Roughly how much? (volume or weight)", Kind: SlotText, MaxLen: 100},
	},
	"property": {
		{Name: "damage_estimate", Prompt: "What's the rough damage estimate?", Kind: SlotText, MaxLen: 100},
	},
	"near_miss": {
		{
			Name:    "potential_severity",
			Prompt:  "How bad could it have been? (low, medium, high)",
			Kind:    SlotChoice,
			Choices: []string{"low", "medium", "high"},
		},
	},
}

// concernSlots are the required fields for a safety concern report.
var concernSlots = []Slot{
	{
		Name:   "concern_description",
		Prompt: "What did you observe? Describe the unsafe condition or behavior.",
		Kind:   SlotText,
		MaxLen: 2000,
	},
	{
		Name:   "concern_location",
		Prompt: "Where is this located?",
		Kind:   SlotText,
		MaxLen: 200,
	},
	{
		Name:    "urgency",
		Prompt:  "How urgent is this? (low, medium, high, critical)",
		Kind:    SlotChoice,
		Choices: []string{"low", "medium", "high", "critical"},
	},
}

// requiredSlots returns the full ordered slot list for an intent given
// the slots filled so far. For incident reports the list grows once
// incident_type is answered.
func requiredSlots(intentName string, filled map[string]string) []Slot {
	switch intentName {
	case "incident_reporting":
		slots := incidentBaseSlots
		if t, ok := filled["incident_type"]; ok {
			slots = append(append([]Slot{}, slots...), incidentTypeSlots[t]...)
		}
		return slots
	case "safety_concern":
		return concernSlots
	default:
		return nil
	}
}

// nextUnfilled returns the first required slot not yet present in
// filled, or nil when the report is complete.
func nextUnfilled(intentName string, filled map[string]string) *Slot {
	for _, s := range requiredSlots(intentName, filled) {
		if _, ok := filled[s.Name]; !ok {
			slot := s
			return &slot
		}
	}
	return nil
}
