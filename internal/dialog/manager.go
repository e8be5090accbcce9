package dialog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CompletedReport is the structured record a finished session compiles.
// The manager hands it to the caller and keeps no reference.
type CompletedReport struct {
	Intent string
	Slots  map[string]string
}

// Manager owns slot-filling conversations: it starts sessions for
// intents that require them, interprets each turn as the answer to the
// pending slot, and finalizes the structured report when every required
// slot is filled.
type Manager struct {
	sessions *SessionStore
}

// NewManager creates a dialog manager over the given session store.
func NewManager(store *SessionStore) *Manager {
	return &Manager{sessions: store}
}

// Sessions exposes the underlying store.
func (m *Manager) Sessions() *SessionStore { return m.sessions }

// HasActiveSession reports whether userID has a collecting session.
func (m *Manager) HasActiveSession(userID string) bool {
	sess := m.sessions.Get(userID)
	return sess != nil && sess.Status == StatusCollecting
}

// slotFillingIntents maps each intent that drives a dialog to its
// opening line and response type.
var slotFillingIntents = map[string]struct {
	opening string
	rtype   ResponseType
}{
	"incident_reporting": {
		opening: "Okay, let's start your incident report.",
		rtype:   TypeIncidentStart,
	},
	"safety_concern": {
		opening: "Thank you for speaking up about safety. Let's capture your concern.",
		rtype:   TypeSafetyGuidance,
	},
}

// RequiresSlots reports whether intentName drives a slot-filling dialog.
func RequiresSlots(intentName string) bool {
	_, ok := slotFillingIntents[intentName]
	return ok
}

// StartSession creates a fresh collecting session for userID, replacing
// any existing one, and returns the prompt for the first required slot.
func (m *Manager) StartSession(userID, intentName string) *Response {
	meta, ok := slotFillingIntents[intentName]
	if !ok {
		return nil
	}

	first := nextUnfilled(intentName, nil)

	var resp *Response
	m.sessions.WithUser(userID, func(_ *Session) *Session {
		sess := &Session{
			UserID:       userID,
			ActiveIntent: intentName,
			FilledSlots:  make(map[string]string),
			PendingSlot:  first.Name,
			Status:       StatusCollecting,
			StartedAt:    time.Now().UTC(),
		}
		resp = &Response{
			Message:      meta.opening + "\n" + first.Prompt,
			Type:         meta.rtype,
			QuickReplies: choiceReplies(first),
			PendingSlot:  first.Name,
		}
		return sess
	})
	return resp
}

// abandonPhrases end an in-progress dialog when sent verbatim.
var abandonPhrases = map[string]bool{
	"cancel": true, "stop": true, "quit": true, "start over": true,
	"never mind": true, "nevermind": true, "main menu": true,
}

// IsAbandonMessage reports whether text is an explicit request to drop
// the current conversation.
func IsAbandonMessage(text string) bool {
	return abandonPhrases[strings.ToLower(strings.TrimSpace(text))]
}

// Abandon drops the user's session and reports whether one existed.
func (m *Manager) Abandon(userID string) bool {
	abandoned := false
	m.sessions.WithUser(userID, func(sess *Session) *Session {
		if sess != nil && sess.Status == StatusCollecting {
			sess.Status = StatusAbandoned
			abandoned = true
		}
		return nil
	})
	return abandoned
}

// HandleTurn treats text as the answer to the user's pending slot. It
// returns (nil, nil) when the user has no collecting session. On an
// invalid answer the session is left unchanged and the response
// re-prompts for the same slot. When the last required slot is filled
// the session completes, is destroyed, and the compiled report is
// returned alongside the completion response.
func (m *Manager) HandleTurn(userID, text string) (*Response, *CompletedReport) {
	var resp *Response
	var report *CompletedReport

	m.sessions.WithUser(userID, func(sess *Session) *Session {
		if sess == nil || sess.Status != StatusCollecting {
			return sess
		}

		slot := nextUnfilled(sess.ActiveIntent, sess.FilledSlots)
		if slot == nil {
			// A collecting session always has a pending slot; if not,
			// finish it rather than loop.
			report = compileReport(sess)
			resp = completionResponse(sess)
			return nil
		}

		value, reprompt := slot.Validate(text)
		if reprompt != "" {
			resp = &Response{
				Message:      reprompt,
				Type:         TypePrompt,
				QuickReplies: choiceReplies(slot),
				PendingSlot:  slot.Name,
			}
			return sess
		}

		sess.FilledSlots[slot.Name] = value
		sess.History = append(sess.History, Turn{UserText: text, At: time.Now().UTC()})

		next := nextUnfilled(sess.ActiveIntent, sess.FilledSlots)
		if next != nil {
			sess.PendingSlot = next.Name
			resp = &Response{
				Message:      next.Prompt,
				Type:         TypePrompt,
				QuickReplies: choiceReplies(next),
				PendingSlot:  next.Name,
			}
			return sess
		}

		sess.PendingSlot = ""
		sess.Status = StatusCompleted
		report = compileReport(sess)
		resp = completionResponse(sess)
		return nil
	})

	return resp, report
}

func compileReport(sess *Session) *CompletedReport {
	return &CompletedReport{
		Intent: sess.ActiveIntent,
		Slots:  copyMap(sess.FilledSlots),
	}
}

func completionResponse(sess *Session) *Response {
	var b strings.Builder
	switch sess.ActiveIntent {
	case "safety_concern":
		b.WriteString("Your safety concern has been recorded. Here's what I captured:\n")
	default:
		b.WriteString("Your incident report is complete. Here's what I captured:\n")
	}

	names := make([]string, 0, len(sess.FilledSlots))
	for name := range sess.FilledSlots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", strings.ReplaceAll(name, "_", " "), sess.FilledSlots[name])
	}
	b.WriteString("The report has been submitted for review.")

	rtype := TypeIncidentCompleted
	if sess.ActiveIntent == "safety_concern" {
		rtype = TypeSafetyConcernCompleted
	}
	return &Response{Message: b.String(), Type: rtype}
}

// choiceReplies surfaces a choice slot's allowed values as quick replies.
func choiceReplies(s *Slot) []string {
	if s == nil || s.Kind != SlotChoice {
		return nil
	}
	replies := make([]string, len(s.Choices))
	for i, c := range s.Choices {
		replies[i] = strings.ReplaceAll(c, "_", " ")
	}
	return replies
}
