// Package capa ranks corrective and preventive action (CAPA) candidates
// against a free-text incident description.
package capa

// Candidate is one library entry of corrective/preventive actions.
// Library order encodes static priority for tie-breaking: earlier
// entries win ties.
type Candidate struct {
	ID       string
	Action   string
	Category string
	Keywords []string
}

// library is the static, read-only candidate set.
var library = []Candidate{
	{
		ID:       "training-refresher",
		Action:   "Schedule refresher training for affected staff on the relevant procedure",
		Category: "training",
		Keywords: []string{"training", "procedure", "unaware", "knowledge", "new employee", "mistake", "error"},
	},
	{
		ID:       "ppe-review",
		Action:   "Review and enforce PPE requirements for the affected task",
		Category: "ppe",
		Keywords: []string{"ppe", "gloves", "goggles", "helmet", "protective", "respirator", "exposure", "burn", "cut"},
	},
	{
		ID:       "machine-guarding",
		Action:   "Inspect and restore machine guarding on the involved equipment",
		Category: "engineering",
		Keywords: []string{"machine", "guard", "guarding", "pinch", "caught", "rotating", "blade", "press"},
	},
	{
		ID:       "lockout-tagout",
		Action:   "Audit lockout/tagout compliance and re-brief the energy isolation procedure",
		Category: "engineering",
		Keywords: []string{"lockout", "tagout", "energized", "electrical", "maintenance", "isolation", "shock"},
	},
	{
		ID:       "spill-response",
		Action:   "Restock spill kits and re-train the spill response procedure",
		Category: "environmental",
		Keywords: []string{"spill", "leak", "chemical", "release", "containment", "drain", "solvent"},
	},
	{
		ID:       "housekeeping",
		Action:   "Institute a housekeeping walk-down for the affected area",
		Category: "housekeeping",
		Keywords: []string{"slip", "trip", "fall", "clutter", "debris", "wet floor", "housekeeping", "obstruction"},
	},
	{
		ID:       "traffic-management",
		Action:   "Review vehicle/pedestrian traffic segregation in the affected area",
		Category: "traffic",
		Keywords: []string{"forklift", "vehicle", "truck", "pedestrian", "reversing", "collision", "dock", "yard"},
	},
	{
		ID:       "preventive-maintenance",
		Action:   "Add the involved equipment to the preventive maintenance schedule",
		Category: "maintenance",
		Keywords: []string{"failure", "broken", "worn", "malfunction", "equipment", "maintenance", "leaking valve"},
	},
	{
		ID:       "signage-barriers",
		Action:   "Install warning signage and physical barriers at the hazard location",
		Category: "signage",
		Keywords: []string{"sign", "signage", "barrier", "warning", "marking", "visibility", "unmarked"},
	},
	{
		ID:       "ventilation-assessment",
		Action:   "Commission an industrial hygiene assessment of ventilation and air quality",
		Category: "hygiene",
		Keywords: []string{"fumes", "vapor", "dust", "ventilation", "air quality", "odor", "inhalation"},
	},
	{
		ID:       "ergonomic-assessment",
		Action:   "Perform an ergonomic assessment of the task and workstation",
		Category: "ergonomics",
		Keywords: []string{"lifting", "strain", "sprain", "repetitive", "posture", "manual handling", "back"},
	},
	{
		ID:       "supervision-review",
		Action:   "Review supervision coverage and permit-to-work controls for the task",
		Category: "management",
		Keywords: []string{"unsupervised", "permit", "authorization", "contractor", "night shift", "alone"},
	},
}

// Library returns the static candidate set.
func Library() []Candidate { return library }
