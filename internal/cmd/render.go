package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/api"
)

// printProfile writes p as JSON, or as a header line plus a sorted
// key/value table.
func printProfile(cmd *cobra.Command, role api.Role, p api.Profile) error {
	if isJSON(cmd) {
		return printJSON(cmd, p)
	}
	f := formatter(cmd)
	if header := profileHeader(role, p); header != "" {
		printIfNotQuiet(cmd, "%s\n\n", header)
	}
	return f.KeyValues(p)
}

// profileHeader summarizes p using the typed view for its role. It returns
// "" when p does not fit the view.
func profileHeader(role api.Role, p api.Profile) string {
	switch role {
	case api.RoleRider:
		r, err := p.AsRider()
		if err != nil {
			return ""
		}
		parts := []string{fmt.Sprintf("Rider #%d", r.ID)}
		if r.Username != "" {
			parts = append(parts, r.Username)
		}
		if r.Email != "" {
			parts = append(parts, "<"+r.Email+">")
		}
		return strings.Join(parts, " ")
	case api.RoleDriver:
		d, err := p.AsDriver()
		if err != nil {
			return ""
		}
		parts := []string{fmt.Sprintf("Driver #%d", d.ID)}
		if d.Name != "" {
			parts = append(parts, d.Name)
		}
		if d.Status != "" {
			parts = append(parts, "["+d.Status+"]")
		}
		return strings.Join(parts, " ")
	}
	return ""
}
