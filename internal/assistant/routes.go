package assistant

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/safetydesk/safetydesk/internal/fivewhys"
	"github.com/safetydesk/safetydesk/internal/incident"
	"github.com/safetydesk/safetydesk/internal/intent"
	"github.com/safetydesk/safetydesk/internal/uploads"
)

// RegisterRoutes mounts the assistant API on the given router.
func RegisterRoutes(r chi.Router, engine *Engine, uploadDir string) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", handleChat(engine, uploadDir))
		r.Post("/chat/reset", handleChatReset(engine))
		r.Get("/chat/status", handleChatStatus(engine))
		r.Get("/chat/health", handleChatHealth(engine))
		r.Get("/chat/suggestions", handleChatSuggestions())
		r.Get("/chat/examples", handleChatExamples())

		r.Post("/five-whys/start", handleFiveWhysStart(engine))
		r.Post("/five-whys/answer", handleFiveWhysAnswer(engine))

		r.Post("/capa/suggest", handleCapaSuggest(engine))

		r.Get("/incidents", handleListIncidents(engine))
		r.Get("/incidents/{id}", handleGetIncident(engine))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeInputError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": message})
}

type chatRequest struct {
	Message string         `json:"message"`
	UserID  string         `json:"user_id"`
	Context map[string]any `json:"context"`
}

// handleChat accepts either a JSON body or a multipart form with an
// optional file attachment. Engine faults never reach the client as
// errors; the engine guarantees a usable response.
func handleChat(engine *Engine, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := Message{}

		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(uploads.MaxSize); err != nil {
				writeInputError(w, "invalid multipart form")
				return
			}
			msg.Text = r.FormValue("message")
			msg.UserID = r.FormValue("user_id")
			if ctxStr := r.FormValue("context"); ctxStr != "" {
				if err := json.Unmarshal([]byte(ctxStr), &msg.Context); err != nil {
					writeInputError(w, "invalid context field")
					return
				}
			}

			if file, header, err := r.FormFile("file"); err == nil {
				defer file.Close()
				mimetype := header.Header.Get("Content-Type")
				desc, err := uploads.Save(file, header.Filename, mimetype, uploadDir)
				if err != nil {
					writeInputError(w, fmt.Sprintf("upload rejected: %v", err))
					return
				}
				msg.File = desc
			}
		} else {
			var req chatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeInputError(w, "invalid request body")
				return
			}
			msg.Text = req.Message
			msg.UserID = req.UserID
			msg.Context = req.Context
		}

		resp := engine.ProcessMessage(r.Context(), msg)
		writeJSON(w, http.StatusOK, resp)
	}
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

func handleChatReset(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req.UserID = defaultUserID
		}

		existed := engine.Reset(req.UserID)
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"reset":   existed,
			"message": "Chat session reset successfully",
		})
	}
}

func handleChatStatus(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.CurrentStatus(r.Context()))
	}
}

func handleChatHealth(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := engine.ProcessMessage(r.Context(), Message{Text: "health check", UserID: "healthcheck"})
		if resp == nil || resp.Message == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	}
}

// suggestionGroup is one category of example utterances for the UI.
type suggestionGroup struct {
	Category    string   `json:"category"`
	Suggestions []string `json:"suggestions"`
}

func handleChatSuggestions() http.HandlerFunc {
	groups := []suggestionGroup{
		{
			Category: "Incident Reporting",
			Suggestions: []string{
				"I need to report a workplace injury",
				"There was a chemical spill",
				"Property damage occurred",
				"I witnessed a near miss",
			},
		},
		{
			Category: "Safety Concerns",
			Suggestions: []string{
				"I have a safety concern",
				"I observed unsafe conditions",
				"There's a potential hazard",
			},
		},
		{
			Category: "Information Lookup",
			Suggestions: []string{
				"Find safety data sheet for acetone",
				"What are emergency contacts?",
				"How do I report incidents?",
			},
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": groups})
	}
}

// handleChatExamples lists the canonical utterances the classifier
// recognizes, keyed by intent.
func handleChatExamples() http.HandlerFunc {
	examples := intent.Examples()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"examples": examples})
	}
}

type fiveWhysStartRequest struct {
	UserID  string `json:"user_id"`
	Problem string `json:"problem"`
}

func handleFiveWhysStart(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fiveWhysStartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInputError(w, "invalid request body")
			return
		}
		req.Problem = strings.TrimSpace(req.Problem)
		if req.Problem == "" {
			writeInputError(w, "Please provide a problem statement.")
			return
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}

		sess := engine.FiveWhys().Start(req.UserID, req.Problem)
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"step":    sess.Step,
			"prompt":  "Why 1?",
			"problem": sess.Problem,
		})
	}
}

type fiveWhysAnswerRequest struct {
	UserID     string `json:"user_id"`
	Answer     string `json:"answer"`
	IncidentID string `json:"incident_id"`
	Complete   bool   `json:"complete"`
}

func handleFiveWhysAnswer(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fiveWhysAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInputError(w, "invalid request body")
			return
		}
		req.Answer = strings.TrimSpace(req.Answer)
		if req.Answer == "" {
			writeInputError(w, "Please provide an answer.")
			return
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}

		mgr := engine.FiveWhys()
		sess := mgr.Answer(req.UserID, req.Answer)
		if sess == nil {
			writeInputError(w, "No active 5 Whys session. Start first.")
			return
		}

		if req.Complete && !sess.Complete() {
			sess = mgr.ForceComplete(req.UserID)
		}

		if sess.Complete() {
			resp := map[string]any{
				"ok":       true,
				"complete": true,
				"whys":     sess.Whys,
				"message":  "5 Whys completed.",
			}
			if req.IncidentID != "" {
				resp["incident_id"] = req.IncidentID
				if attached := attachRootCause(r, engine, req.IncidentID, sess); !attached {
					resp["attach_error"] = "incident not found"
				}
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"complete": false,
			"prompt":   fmt.Sprintf("Why %d?", sess.Step+1),
			"progress": len(sess.Whys),
		})
	}
}

func attachRootCause(r *http.Request, engine *Engine, incidentID string, sess *fivewhys.Session) bool {
	rec, err := engine.Incidents().AttachRootCause(r.Context(), incidentID, sess.Whys)
	return err == nil && rec != nil
}

type capaSuggestRequest struct {
	Description string `json:"description"`
}

func handleCapaSuggest(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req capaSuggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeInputError(w, "invalid request body")
			return
		}
		// The suggestion engine's precondition: never pass it an empty
		// description.
		req.Description = strings.TrimSpace(req.Description)
		if req.Description == "" {
			writeInputError(w, "Please provide a short description.")
			return
		}

		suggestions := engine.Suggester().Suggest(r.Context(), req.Description)
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":          true,
			"suggestions": suggestions,
		})
	}
}

func handleListIncidents(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := engine.Incidents().List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "listing incidents failed"})
			return
		}
		if records == nil {
			records = []incident.Record{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "incidents": records})
	}
}

func handleGetIncident(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := engine.Incidents().Get(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "loading incident failed"})
			return
		}
		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "incident": rec})
	}
}
