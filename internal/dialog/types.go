// Package dialog implements the slot-filling conversation manager that
// walks a user through a structured safety-incident or safety-concern
// report, one required field per turn.
package dialog

// ResponseType tags the kind of reply the assistant produced.
type ResponseType string

const (
	TypeIncidentStart          ResponseType = "incident_start"
	TypeIncidentCompleted      ResponseType = "incident_completed"
	TypeSafetyConcernCompleted ResponseType = "safety_concern_completed"
	TypeFileUploadGuidance     ResponseType = "file_upload_guidance"
	TypeSafetyGuidance         ResponseType = "safety_guidance"
	TypeSDSGuidance            ResponseType = "sds_guidance"
	TypeEmergencyGuidance      ResponseType = "emergency_guidance"
	TypeGeneralHelp            ResponseType = "general_help"
	TypeGeneralResponse        ResponseType = "general_response"
	TypePrompt                 ResponseType = "prompt"
	TypeError                  ResponseType = "error"
)

// Action is one UI affordance attached to a response. Exactly one of
// URL or Message is set depending on the action kind.
type Action struct {
	Text    string `json:"text"`
	Action  string `json:"action"` // "navigate", "continue_conversation", "external"
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// FileContext echoes the descriptor of a file the user attached.
type FileContext struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// Response is the single reply shape the engine hands to the route/UI
// layer. Message and Type are always set after Normalize.
type Response struct {
	Message      string       `json:"message"`
	Type         ResponseType `json:"type"`
	Actions      []Action     `json:"actions,omitempty"`
	QuickReplies []string     `json:"quick_replies,omitempty"`
	FileContext  *FileContext `json:"file_context,omitempty"`
	Intent       string       `json:"intent,omitempty"`
	Confidence   float64      `json:"confidence,omitempty"`
	IncidentID   string       `json:"incident_id,omitempty"`
	PendingSlot  string       `json:"pending_slot,omitempty"`
}

// terminalTypes are responses that end or escalate a conversation and
// must not be padded with generic navigation actions.
var terminalTypes = map[ResponseType]bool{
	TypeIncidentCompleted:      true,
	TypeSafetyConcernCompleted: true,
	TypeEmergencyGuidance:      true,
}

const fallbackMessage = "I processed your request, but couldn't generate a proper response. Let me help you differently."

// defaultActions is the navigation set added to non-terminal responses
// that carry no actions, so the UI is never left with zero options.
func defaultActions() []Action {
	return []Action{
		{Text: "Main Menu", Action: "continue_conversation", Message: "Show me the main menu"},
		{Text: "Dashboard", Action: "navigate", URL: "/dashboard"},
	}
}

// Normalize enforces the response contract: non-empty message, a type,
// default navigation actions on non-terminal responses, continuity
// quick replies on completed incidents, and the attached file context.
func (r *Response) Normalize(file *FileContext) {
	if r.Message == "" {
		r.Message = fallbackMessage
	}
	if r.Type == "" {
		r.Type = TypeGeneralResponse
	}
	if len(r.Actions) == 0 && !terminalTypes[r.Type] {
		r.Actions = defaultActions()
	}
	if r.Type == TypeIncidentCompleted && len(r.QuickReplies) == 0 {
		r.QuickReplies = []string{
			"Report another incident",
			"View my reports",
			"What happens next?",
			"Main menu",
		}
	}
	if file != nil && r.FileContext == nil {
		r.FileContext = file
	}
}
