// Package incident persists finalized incident records. Dialog and
// five-whys state is process-lifetime only; records, once compiled, are
// durable.
package incident

import "time"

// Record is a finalized incident report. Fields carries the
// type-specific slots (injury severity, vehicle ids...) exactly as the
// dialog collected them. RootCauseWhys is attached later, after a
// five-whys session completes against this record.
type Record struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Description   string            `json:"description"`
	Fields        map[string]string `json:"fields,omitempty"`
	RootCauseWhys []string          `json:"root_cause_whys,omitempty"`
	ReportedBy    string            `json:"reported_by,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
