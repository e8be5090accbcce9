package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/safetydesk/safetydesk/internal/capa"
	"github.com/safetydesk/safetydesk/internal/incident"
)

// handleClassifyIntent classifies a message and reports the intent and
// confidence.
func (s *Server) handleClassifyIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message must not be empty"), nil
	}

	result := s.classifier.Classify(ctx, message)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Intent: %s\nConfidence: %.2f",
		result.Intent, result.Confidence,
	)), nil
}

// handleSuggestCorrectiveActions ranks corrective actions for a description.
func (s *Server) handleSuggestCorrectiveActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: description"), nil
	}
	if strings.TrimSpace(description) == "" {
		return mcp.NewToolResultError("description must not be empty"), nil
	}

	suggestions := s.suggester.Suggest(ctx, description)
	if len(suggestions) == 0 {
		return mcp.NewToolResultText("No corrective actions matched this description. Try a more specific description of what happened."), nil
	}

	return mcp.NewToolResultText(formatSuggestions(suggestions)), nil
}

// handleListIncidents lists recorded incidents, newest first.
func (s *Server) handleListIncidents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	records, err := s.incidents.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing incidents failed: %v", err)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No incidents recorded yet."), nil
	}
	if len(records) > limit {
		records = records[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d incident(s):\n", len(records)))
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("\n- %s [%s] %s (reported by %s at %s)",
			r.ID, r.Type, firstLine(r.Description), r.ReportedBy, r.CreatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetIncident returns a single incident by ID.
func (s *Server) handleGetIncident(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	rec, err := s.incidents.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading incident failed: %v", err)), nil
	}
	if rec == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no incident found with ID %q", id)), nil
	}

	return mcp.NewToolResultText(formatIncident(rec)), nil
}

func formatSuggestions(suggestions []capa.Suggestion) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d suggestion(s):\n", len(suggestions)))
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("\n--- Suggestion %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Action: %s\n", s.Action))
		sb.WriteString(fmt.Sprintf("Category: %s\n", s.Category))
		sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", s.Confidence))
		sb.WriteString(fmt.Sprintf("Rationale: %s\n", s.Rationale))
	}
	return sb.String()
}

func formatIncident(rec *incident.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID: %s\n", rec.ID))
	sb.WriteString(fmt.Sprintf("Type: %s\n", rec.Type))
	sb.WriteString(fmt.Sprintf("Description: %s\n", rec.Description))
	sb.WriteString(fmt.Sprintf("Reported by: %s\n", rec.ReportedBy))
	sb.WriteString(fmt.Sprintf("Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05")))

	if len(rec.Fields) > 0 {
		sb.WriteString("\nDetails:\n")
		for name, value := range rec.Fields {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
		}
	}

	if len(rec.RootCauseWhys) > 0 {
		sb.WriteString("\nRoot cause analysis:\n")
		for i, why := range rec.RootCauseWhys {
			sb.WriteString(fmt.Sprintf("  Why %d: %s\n", i+1, why))
		}
	}

	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
