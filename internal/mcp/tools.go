package mcp

import "github.com/mark3labs/mcp-go/mcp"

// classifyIntentTool defines the classify_intent MCP tool.
var classifyIntentTool = mcp.NewTool("classify_intent",
	mcp.WithDescription("Classify a message into a safety intake intent (incident_reporting, safety_concern, sds_lookup, emergency, general) with a confidence score."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The message to classify"),
	),
)

// suggestCorrectiveActionsTool defines the suggest_corrective_actions MCP tool.
var suggestCorrectiveActionsTool = mcp.NewTool("suggest_corrective_actions",
	mcp.WithDescription("Suggest ranked corrective and preventive actions for an incident description, each with a rationale."),
	mcp.WithString("description",
		mcp.Required(),
		mcp.Description("Short description of the incident or hazard"),
	),
)

// listIncidentsTool defines the list_incidents MCP tool.
var listIncidentsTool = mcp.NewTool("list_incidents",
	mcp.WithDescription("List recorded safety incidents, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of incidents to return (default 20)"),
	),
)

// getIncidentTool defines the get_incident MCP tool.
var getIncidentTool = mcp.NewTool("get_incident",
	mcp.WithDescription("Get a single recorded incident by its ID, including any attached root cause analysis."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("The incident ID"),
	),
)
