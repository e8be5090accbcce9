// Package assistant wires the intake components together: one inbound
// utterance flows through intent classification, the slot-filling
// dialog, and the guidance responders, and comes back as a single
// normalized Response.
package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/safetydesk/safetydesk/internal/capa"
	"github.com/safetydesk/safetydesk/internal/config"
	"github.com/safetydesk/safetydesk/internal/dialog"
	"github.com/safetydesk/safetydesk/internal/embeddings"
	"github.com/safetydesk/safetydesk/internal/fivewhys"
	"github.com/safetydesk/safetydesk/internal/incident"
	"github.com/safetydesk/safetydesk/internal/intent"
	"github.com/safetydesk/safetydesk/internal/uploads"
)

const defaultUserID = "default_user"

// Message is one inbound utterance.
type Message struct {
	Text    string
	UserID  string
	Context map[string]any
	File    *uploads.Descriptor
}

// Engine is the long-lived intake engine. One instance is constructed
// at process start and shared by all request handlers; all of its
// components are safe for concurrent use.
type Engine struct {
	cfg        *config.Config
	provider   *embeddings.Provider
	classifier *intent.Classifier
	dialogs    *dialog.Manager
	fivewhys   *fivewhys.Manager
	suggester  *capa.Engine
	incidents  *incident.Store
	startedAt  time.Time
}

// New assembles an engine from its shared dependencies.
func New(cfg *config.Config, provider *embeddings.Provider, incidents *incident.Store) *Engine {
	return &Engine{
		cfg:        cfg,
		provider:   provider,
		classifier: intent.NewClassifier(provider, cfg.IntentThreshold),
		dialogs:    dialog.NewManager(dialog.NewSessionStore()),
		fivewhys:   fivewhys.NewManager(),
		suggester:  capa.NewEngine(provider, cfg.SuggestionLimit),
		incidents:  incidents,
		startedAt:  time.Now().UTC(),
	}
}

// FiveWhys exposes the five-whys session manager.
func (e *Engine) FiveWhys() *fivewhys.Manager { return e.fivewhys }

// Incidents exposes the incident store.
func (e *Engine) Incidents() *incident.Store { return e.incidents }

// Suggester exposes the CAPA suggestion engine.
func (e *Engine) Suggester() *capa.Engine { return e.suggester }

// Classifier exposes the intent classifier.
func (e *Engine) Classifier() *intent.Classifier { return e.classifier }

// ProcessMessage handles one turn for one user and always returns a
// usable response: any internal fault is caught here, logged, and
// converted into a fallback reply, leaving session state untouched.
func (e *Engine) ProcessMessage(ctx context.Context, msg Message) (resp *dialog.Response) {
	userID := msg.UserID
	if userID == "" {
		userID = defaultUserID
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("assistant: processing fault for user %s: %v", userID, r)
			resp = errorResponse()
			resp.Normalize(fileContext(msg.File))
		}
	}()

	text := truncate(msg.Text, e.cfg.MaxMessageLength)
	fc := fileContext(msg.File)

	switch {
	case text == "" && msg.File != nil:
		resp = fileGuidance(msg.File)

	case text == "":
		resp = emptyMessageResponse()

	case e.dialogs.HasActiveSession(userID):
		resp = e.continueDialog(ctx, userID, text)

	default:
		resp = e.startFromIntent(ctx, userID, text)
	}

	resp.Normalize(fc)
	return resp
}

// continueDialog routes a turn into the user's active session. An
// in-progress report is never derailed by fresh intent detection; only
// an explicit abandon message ends it early.
func (e *Engine) continueDialog(ctx context.Context, userID, text string) *dialog.Response {
	if dialog.IsAbandonMessage(text) {
		e.dialogs.Abandon(userID)
		resp := generalHelp()
		resp.Message = "No problem, I've cancelled that report.\n\n" + resp.Message
		return resp
	}

	resp, report := e.dialogs.HandleTurn(userID, text)
	if resp == nil {
		// Session vanished between the check and the turn (e.g. a
		// concurrent reset). Start over from intent classification.
		return e.startFromIntent(ctx, userID, text)
	}

	if report != nil {
		if rec := e.persistReport(ctx, userID, report); rec != nil {
			resp.IncidentID = rec.ID
		}
	}
	return resp
}

// startFromIntent classifies a fresh utterance and either opens a
// slot-filling session or answers with guidance.
func (e *Engine) startFromIntent(ctx context.Context, userID, text string) *dialog.Response {
	result := e.classifier.Classify(ctx, text)

	var resp *dialog.Response
	switch result.Intent {
	case intent.IncidentReporting, intent.SafetyConcern:
		resp = e.dialogs.StartSession(userID, string(result.Intent))
	case intent.Emergency:
		resp = emergencyGuidance(e.cfg.Contacts)
	case intent.SDSLookup:
		resp = sdsGuidance(intent.ExtractChemicalName(text))
	default:
		resp = generalHelp()
	}

	resp.Intent = string(result.Intent)
	if !result.Matched() {
		resp.Intent = string(intent.General)
	}
	resp.Confidence = result.Confidence
	return resp
}

// persistReport compiles and stores the finalized record. A storage
// failure is logged and the conversation still completes; the record is
// simply not retrievable later.
func (e *Engine) persistReport(ctx context.Context, userID string, report *dialog.CompletedReport) *incident.Record {
	rec := incident.Record{
		Type:       report.Slots["incident_type"],
		ReportedBy: userID,
		Fields:     map[string]string{},
	}
	if rec.Type == "" {
		rec.Type = report.Intent
	}

	for name, value := range report.Slots {
		switch name {
		case "incident_type":
		case "description", "concern_description":
			rec.Description = value
		default:
			rec.Fields[name] = value
		}
	}

	saved, err := e.incidents.Save(ctx, rec)
	if err != nil {
		log.Printf("assistant: persisting report for user %s failed: %v", userID, err)
		return nil
	}
	return saved
}

// Reset drops the user's dialog session and reports whether one existed.
func (e *Engine) Reset(userID string) bool {
	if userID == "" {
		userID = defaultUserID
	}
	return e.dialogs.Sessions().Reset(userID)
}

// Status summarizes the engine's state for the status endpoint.
type Status struct {
	Uptime              string `json:"uptime"`
	ActiveSessions      int    `json:"active_sessions"`
	EmbeddingsAvailable bool   `json:"embeddings_available"`
	IncidentCount       int    `json:"incident_count"`
}

// CurrentStatus reports engine health counters.
func (e *Engine) CurrentStatus(ctx context.Context) Status {
	count, err := e.incidents.Count(ctx)
	if err != nil {
		log.Printf("assistant: counting incidents failed: %v", err)
	}
	return Status{
		Uptime:              time.Since(e.startedAt).Round(time.Second).String(),
		ActiveSessions:      e.dialogs.Sessions().ActiveCount(),
		EmbeddingsAvailable: e.provider.IsAvailable(),
		IncidentCount:       count,
	}
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len([]rune(s)) > max {
		return string([]rune(s)[:max])
	}
	return s
}

func fileContext(d *uploads.Descriptor) *dialog.FileContext {
	if d == nil {
		return nil
	}
	return &dialog.FileContext{Filename: d.Filename, Size: d.Size, Type: d.Type}
}
