package assistant

import (
	"fmt"
	"strings"

	"github.com/safetydesk/safetydesk/internal/config"
	"github.com/safetydesk/safetydesk/internal/dialog"
	"github.com/safetydesk/safetydesk/internal/uploads"
)

func generalHelp() *dialog.Response {
	return &dialog.Response{
		Message: "I'm your EHS assistant. I can help you with:\n" +
			"- Report incidents and accidents step by step\n" +
			"- Submit safety concerns and observations\n" +
			"- Find safety data sheets and chemical information\n" +
			"- Run a 5 Whys root cause analysis\n\n" +
			"What would you like to work on?",
		Type: dialog.TypeGeneralHelp,
		Actions: []dialog.Action{
			{Text: "Report Incident", Action: "continue_conversation", Message: "I need to report a workplace incident"},
			{Text: "Safety Concern", Action: "continue_conversation", Message: "I want to report a safety concern"},
			{Text: "Find SDS", Action: "continue_conversation", Message: "I need to find a safety data sheet"},
			{Text: "Dashboard", Action: "navigate", URL: "/dashboard"},
		},
		QuickReplies: []string{
			"Report an incident",
			"Safety concern",
			"Find SDS",
			"What can you help with?",
		},
	}
}

func emptyMessageResponse() *dialog.Response {
	return &dialog.Response{
		Message: "I received an empty message. Tell me what happened, or pick one of the options below.",
		Type:    dialog.TypePrompt,
		QuickReplies: []string{
			"Report an incident",
			"Safety concern",
			"Find SDS",
		},
	}
}

func errorResponse() *dialog.Response {
	return &dialog.Response{
		Message: "I'm having trouble processing your request. Let's try a different approach: use the navigation menu, or try asking in a different way.",
		Type:    dialog.TypeError,
		Actions: []dialog.Action{
			{Text: "Report Incident", Action: "navigate", URL: "/incidents/new"},
			{Text: "Dashboard", Action: "navigate", URL: "/dashboard"},
			{Text: "Try Again", Action: "retry"},
		},
		QuickReplies: []string{"Report incident", "Main menu", "Try again"},
	}
}

func emergencyGuidance(contacts config.ContactsConfig) *dialog.Response {
	return &dialog.Response{
		Message: "EMERGENCY SUPPORT\n\n" +
			"For life-threatening emergencies CALL " + contacts.Emergency + " IMMEDIATELY.\n\n" +
			"Site security: " + contacts.Security + "\n\n" +
			"After ensuring everyone is safe, I can help you report the incident.",
		Type: dialog.TypeEmergencyGuidance,
		Actions: []dialog.Action{
			{Text: "Call Emergency Services", Action: "external", URL: "tel:" + strings.ReplaceAll(contacts.Emergency, " ", "")},
			{Text: "Report Emergency Incident", Action: "continue_conversation", Message: "I need to report an incident"},
		},
	}
}

func sdsGuidance(chemical string) *dialog.Response {
	message := "I'll help you find safety data sheets. Our SDS library contains safety information for workplace chemicals."
	firstReply := "Search by chemical name"
	if chemical != "" {
		message += fmt.Sprintf("\n\nI noticed you mentioned %s. I can help you find that specific SDS.", chemical)
		firstReply = fmt.Sprintf("Find %s SDS", chemical)
	}

	return &dialog.Response{
		Message: message,
		Type:    dialog.TypeSDSGuidance,
		Actions: []dialog.Action{
			{Text: "Search SDS Library", Action: "navigate", URL: "/sds"},
			{Text: "Upload New SDS", Action: "navigate", URL: "/sds/upload"},
		},
		QuickReplies: []string{firstReply, "Browse all SDS", "Upload new SDS"},
	}
}

// fileGuidance acknowledges a file-only message, typed by MIME category.
// It never opens a dialog session by itself; the user still has to say
// what the file is for.
func fileGuidance(file *uploads.Descriptor) *dialog.Response {
	switch {
	case strings.HasPrefix(file.Type, "image/"):
		return &dialog.Response{
			Message: fmt.Sprintf("Image received: %s.\n\nI can help you use this image for incident reporting or safety documentation. What would you like to do with it?", file.Filename),
			Type:    dialog.TypeFileUploadGuidance,
			Actions: []dialog.Action{
				{Text: "Report Incident with Photo", Action: "continue_conversation", Message: "I want to report an incident with this photo"},
				{Text: "Safety Concern with Photo", Action: "continue_conversation", Message: "I have a safety concern with this photo"},
			},
			QuickReplies: []string{
				"Report incident with photo",
				"Safety concern with photo",
			},
		}
	case file.Type == "application/pdf":
		return &dialog.Response{
			Message: fmt.Sprintf("PDF received: %s.\n\nThis could be a safety data sheet or safety documentation. How would you like to proceed?", file.Filename),
			Type:    dialog.TypeFileUploadGuidance,
			Actions: []dialog.Action{
				{Text: "Add to SDS Library", Action: "navigate", URL: "/sds/upload"},
				{Text: "Attach to a Report", Action: "continue_conversation", Message: "I want to report an incident"},
			},
		}
	default:
		return &dialog.Response{
			Message: fmt.Sprintf("File received: %s.\n\nTell me what this file is for and I'll help you from there.", file.Filename),
			Type:    dialog.TypeFileUploadGuidance,
		}
	}
}
