package resolve

import (
	"errors"
	"fmt"

	"github.com/takeme/profilectl/internal/api"
)

// Role parses a --role value. On failure the returned *api.StructuredError
// carries a suggestion when the input resembles a known role.
func Role(s string) (api.Role, error) {
	role, err := api.ParseRole(s)
	if err == nil {
		return role, nil
	}

	var se *api.StructuredError
	if !errors.As(err, &se) {
		return "", err
	}
	if matches := Suggest(s, api.RoleNames(), 1); len(matches) > 0 {
		se.Suggestion = fmt.Sprintf("Did you mean %s?", matches[0])
	}
	return "", se
}
