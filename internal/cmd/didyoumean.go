package cmd

import (
	"strings"

	"github.com/takeme/profilectl/internal/resolve"
)

// maxSuggestDistance bounds how far a typo may be from a real name.
const maxSuggestDistance = 3

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return resolve.Closest(unknown, commands, maxSuggestDistance)
}

// suggestFlag finds the closest flag name to the unknown input. Dashes are
// ignored when comparing but kept in the returned name.
func suggestFlag(unknown string, flagNames []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	bare := make([]string, len(flagNames))
	for i, f := range flagNames {
		bare[i] = strings.TrimLeft(f, "-")
	}
	match := resolve.Closest(stripped, bare, maxSuggestDistance)
	if match == "" {
		return ""
	}
	for i, b := range bare {
		if b == match {
			return flagNames[i]
		}
	}
	return ""
}
