package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/takeme/profilectl/internal/api"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var decodeErr *api.DecodeError
	var structured *api.StructuredError

	switch {
	case errors.As(err, &structured):
		fmt.Fprintf(&msg, "Error: %s\n", structured.Message)
		if structured.Suggestion != "" {
			fmt.Fprintf(&msg, "\n%s\n", structured.Suggestion)
		}

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Body)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode, apiErr.Body))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case errors.As(err, &decodeErr):
		fmt.Fprintf(&msg, "Unexpected response from %s %s: %v\n\n", decodeErr.Method, decodeErr.URL, decodeErr.Err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check that --base-url points at the profile API (e.g. http://localhost:8080/api/profile)\n")
		msg.WriteString("  - Use --debug to see the request\n")

	case api.IsCanceledError(err):
		msg.WriteString("Canceled.\n")

	case api.IsTimeoutError(err):
		msg.WriteString("Request timed out.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the profile server is responding\n")
		msg.WriteString("  - Raise --timeout\n")

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the profile server is running\n")
		msg.WriteString("  - Verify the URL: profilectl config show\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the --base-url spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int, body string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check the role and request body\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")
		if strings.Contains(strings.ToLower(body), "role") {
			suggestions.WriteString("  - The role must be RIDER or DRIVER\n")
		}

	case 404:
		suggestions.WriteString("  - No profile exists for this user and role\n")
		suggestions.WriteString("  - Check the user ID or email\n")
		suggestions.WriteString("  - The same user may exist under the other role\n")

	case 409:
		suggestions.WriteString("  - The update conflicts with another profile (e.g. email already in use)\n")

	case 422:
		suggestions.WriteString("  - Validation failed\n")
		suggestions.WriteString("  - Check your input values\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
