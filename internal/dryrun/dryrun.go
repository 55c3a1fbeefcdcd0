// Package dryrun previews profile writes without sending them.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview is the request a write would have sent.
type Preview struct {
	DryRun bool   `json:"dry_run"`
	Method string `json:"method"`
	URL    string `json:"url"`
	Body   any    `json:"body"`
}

// New returns a Preview for method, url and body.
func New(method, url string, body any) *Preview {
	return &Preview{DryRun: true, Method: method, URL: url, Body: body}
}

const rule = "───────────────────────────────────────"

// Write outputs the preview as text.
func (p *Preview) Write(w io.Writer) error {
	body, err := json.MarshalIndent(p.Body, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dry-run body: %w", err)
	}
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would send %s %s\n", p.Method, p.URL)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "%s\n", body)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
	return nil
}
