package dialog

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSlotValidate(t *testing.T) {
	text := Slot{Name: "description", Prompt: "Describe it.", Kind: SlotText, MaxLen: 10}
	choice := Slot{Name: "urgency", Prompt: "How urgent?", Kind: SlotChoice, Choices: []string{"low", "near_miss"}}

	tests := []struct {
		slot      Slot
		answer    string
		wantValue string
		wantValid bool
	}{
		{text, "it broke", "it broke", true},
		{text, "   ", "", false},
		{text, "this is far too long", "", false},
		{choice, "low", "low", true},
		{choice, "LOW", "low", true},
		{choice, "near miss", "near_miss", true},
		{choice, "near-miss", "near_miss", true},
		{choice, "banana", "", false},
	}

	for _, tt := range tests {
		value, reprompt := tt.slot.Validate(tt.answer)
		valid := reprompt == ""
		if valid != tt.wantValid {
			t.Errorf("%s.Validate(%q) valid = %v, want %v (reprompt %q)", tt.slot.Name, tt.answer, valid, tt.wantValid, reprompt)
			continue
		}
		if value != tt.wantValue {
			t.Errorf("%s.Validate(%q) = %q, want %q", tt.slot.Name, tt.answer, value, tt.wantValue)
		}
	}
}

func TestStartSessionPromptsFirstSlot(t *testing.T) {
	m := NewManager(NewSessionStore())

	resp := m.StartSession("u1", "incident_reporting")
	if resp == nil {
		t.Fatal("StartSession returned nil for a slot-filling intent")
	}
	if resp.PendingSlot != "incident_type" {
		t.Errorf("PendingSlot = %q, want incident_type", resp.PendingSlot)
	}
	if !strings.Contains(resp.Message, "incident report") {
		t.Errorf("opening message missing: %q", resp.Message)
	}
	if len(resp.QuickReplies) == 0 {
		t.Error("choice slot should surface quick replies")
	}
	if !m.HasActiveSession("u1") {
		t.Error("no active session after StartSession")
	}

	if resp := m.StartSession("u1", "sds_lookup"); resp != nil {
		t.Error("StartSession accepted a non-slot-filling intent")
	}
}

func TestIncidentFlowCompletes(t *testing.T) {
	m := NewManager(NewSessionStore())
	m.StartSession("u1", "incident_reporting")

	answers := []string{
		"injury",
		"A worker cut their hand on the trim press",
		"Building 2, press line",
		"Today around 9am",
		"J. Alvarez, press operator",
		"first aid",
	}

	var report *CompletedReport
	for i, answer := range answers {
		var resp *Response
		resp, report = m.HandleTurn("u1", answer)
		if resp == nil {
			t.Fatalf("turn %d: nil response", i)
		}
		if i < len(answers)-1 {
			if report != nil {
				t.Fatalf("turn %d: completed early with %d slots", i, len(report.Slots))
			}
			if resp.PendingSlot == "" {
				t.Fatalf("turn %d: mid-flow response has no pending slot", i)
			}
		}
	}

	if report == nil {
		t.Fatal("flow did not complete after all answers")
	}
	if report.Intent != "incident_reporting" {
		t.Errorf("report intent = %q", report.Intent)
	}
	want := map[string]string{
		"incident_type":   "injury",
		"description":     "A worker cut their hand on the trim press",
		"location":        "Building 2, press line",
		"occurred_at":     "Today around 9am",
		"injured_person":  "J. Alvarez, press operator",
		"injury_severity": "first_aid",
	}
	for k, v := range want {
		if report.Slots[k] != v {
			t.Errorf("slot %s = %q, want %q", k, report.Slots[k], v)
		}
	}

	if m.HasActiveSession("u1") {
		t.Error("session survived completion")
	}
}

func TestInvalidAnswerReprompts(t *testing.T) {
	m := NewManager(NewSessionStore())
	m.StartSession("u1", "incident_reporting")

	resp, report := m.HandleTurn("u1", "banana")
	if report != nil {
		t.Fatal("invalid answer completed the session")
	}
	if resp.PendingSlot != "incident_type" {
		t.Errorf("PendingSlot = %q, want incident_type after invalid answer", resp.PendingSlot)
	}
	if !strings.Contains(resp.Message, "pick one of") {
		t.Errorf("reprompt message = %q", resp.Message)
	}

	// Session must be unchanged: the valid answer still works.
	resp, _ = m.HandleTurn("u1", "vehicle")
	if resp.PendingSlot != "description" {
		t.Errorf("after valid answer PendingSlot = %q, want description", resp.PendingSlot)
	}
}

func TestTypeSpecificSlotsGrow(t *testing.T) {
	m := NewManager(NewSessionStore())
	m.StartSession("u1", "incident_reporting")

	m.HandleTurn("u1", "vehicle")
	for _, a := range []string{"Truck clipped the gate", "North gate", "This morning"} {
		m.HandleTurn("u1", a)
	}

	// Vehicle incidents require two extra slots before completing.
	resp, report := m.HandleTurn("u1", "Fleet 114")
	if report != nil {
		t.Fatal("vehicle flow completed without driver_name")
	}
	if resp.PendingSlot != "driver_name" {
		t.Errorf("PendingSlot = %q, want driver_name", resp.PendingSlot)
	}

	_, report = m.HandleTurn("u1", "D. Kim")
	if report == nil {
		t.Fatal("vehicle flow did not complete")
	}
	if report.Slots["vehicle_ids"] != "Fleet 114" || report.Slots["driver_name"] != "D. Kim" {
		t.Errorf("type-specific slots = %v", report.Slots)
	}
}

func TestSafetyConcernFlow(t *testing.T) {
	m := NewManager(NewSessionStore())
	m.StartSession("u1", "safety_concern")

	m.HandleTurn("u1", "Loose guard rail on the mezzanine")
	m.HandleTurn("u1", "Mezzanine, building 4")
	resp, report := m.HandleTurn("u1", "high")

	if report == nil {
		t.Fatal("concern flow did not complete")
	}
	if resp.Type != TypeSafetyConcernCompleted {
		t.Errorf("completion type = %q", resp.Type)
	}
	if report.Slots["urgency"] != "high" {
		t.Errorf("urgency = %q", report.Slots["urgency"])
	}
}

func TestAbandon(t *testing.T) {
	m := NewManager(NewSessionStore())

	for _, phrase := range []string{"cancel", "Never Mind", "  STOP  "} {
		if !IsAbandonMessage(phrase) {
			t.Errorf("IsAbandonMessage(%q) = false", phrase)
		}
	}
	if IsAbandonMessage("please don't cancel my shift") {
		t.Error("embedded abandon word treated as abandon")
	}

	m.StartSession("u1", "incident_reporting")
	if !m.Abandon("u1") {
		t.Error("Abandon returned false for active session")
	}
	if m.HasActiveSession("u1") {
		t.Error("session still active after abandon")
	}
	if m.Abandon("u1") {
		t.Error("Abandon returned true with no session")
	}
}

func TestHandleTurnWithoutSession(t *testing.T) {
	m := NewManager(NewSessionStore())
	resp, report := m.HandleTurn("ghost", "hello")
	if resp != nil || report != nil {
		t.Errorf("HandleTurn without session = (%v, %v), want (nil, nil)", resp, report)
	}
}

func TestConcurrentUsersIndependent(t *testing.T) {
	m := NewManager(NewSessionStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", n)
			m.StartSession(user, "safety_concern")
			m.HandleTurn(user, "Blocked fire exit")
			m.HandleTurn(user, "Dock 3")
			_, report := m.HandleTurn(user, "critical")
			if report == nil {
				t.Errorf("%s: flow did not complete", user)
				return
			}
			if report.Slots["concern_location"] != "Dock 3" {
				t.Errorf("%s: slots crossed between users: %v", user, report.Slots)
			}
		}(i)
	}
	wg.Wait()

	if n := m.Sessions().ActiveCount(); n != 0 {
		t.Errorf("ActiveCount = %d after all flows completed, want 0", n)
	}
}

func TestConcurrentTurnsSameUserSerialized(t *testing.T) {
	m := NewManager(NewSessionStore())
	m.StartSession("u1", "incident_reporting")
	m.HandleTurn("u1", "injury")

	// Four text slots remain before the final severity choice. Fire
	// many concurrent turns with distinct answers: each answer must
	// land in at most one slot, and the choice slot must reject the
	// rest, so the session cannot complete here.
	const n = 12
	var wg sync.WaitGroup
	var completions int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, report := m.HandleTurn("u1", fmt.Sprintf("answer %d", i))
			if report != nil {
				atomic.AddInt32(&completions, 1)
			}
		}(i)
	}
	wg.Wait()

	if completions != 0 {
		t.Fatalf("%d concurrent turns completed the session before the severity choice", completions)
	}

	sess := m.Sessions().Get("u1")
	if sess == nil {
		t.Fatal("session gone after concurrent turns")
	}
	if sess.PendingSlot != "injury_severity" {
		t.Fatalf("PendingSlot = %q, want injury_severity", sess.PendingSlot)
	}
	if len(sess.FilledSlots) != 5 {
		t.Fatalf("FilledSlots = %v, want 5 filled", sess.FilledSlots)
	}

	_, report := m.HandleTurn("u1", "first aid")
	if report == nil {
		t.Fatal("flow did not complete")
	}
	seen := make(map[string]bool)
	for _, name := range []string{"description", "location", "occurred_at", "injured_person"} {
		v := report.Slots[name]
		if !strings.HasPrefix(v, "answer ") {
			t.Errorf("slot %s = %q, not one of the concurrent answers", name, v)
		}
		if seen[v] {
			t.Errorf("answer %q filled more than one slot", v)
		}
		seen[v] = true
	}
}

func TestNormalize(t *testing.T) {
	r := &Response{}
	r.Normalize(nil)
	if r.Message == "" || r.Type != TypeGeneralResponse {
		t.Errorf("Normalize left empty response: %+v", r)
	}
	if len(r.Actions) == 0 {
		t.Error("non-terminal response missing default actions")
	}

	done := &Response{Message: "done", Type: TypeIncidentCompleted}
	done.Normalize(nil)
	if len(done.Actions) != 0 {
		t.Error("terminal response received default actions")
	}
	if len(done.QuickReplies) == 0 {
		t.Error("completed incident missing continuity quick replies")
	}

	fc := &FileContext{Filename: "photo.jpg", Size: 10, Type: "image/jpeg"}
	withFile := &Response{Message: "ok", Type: TypePrompt}
	withFile.Normalize(fc)
	if withFile.FileContext != fc {
		t.Error("file context not attached")
	}
}
