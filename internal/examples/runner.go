// Package examples walks through every profile operation against a live
// server, logging each result. Failures are logged and swallowed so one bad
// call does not stop the walkthrough.
package examples

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/takeme/profilectl/internal/api"
)

// ProfileAPI is the subset of api.ProfileService the runner drives.
type ProfileAPI interface {
	Get(ctx context.Context, userID api.UserID, role api.Role) (api.Profile, error)
	Update(ctx context.Context, userID api.UserID, role api.Role, profile api.Profile) (api.Profile, error)
	PartialUpdate(ctx context.Context, userID api.UserID, role api.Role, profile api.Profile) (api.Profile, error)
	Exists(ctx context.Context, userID api.UserID, role api.Role) (bool, error)
	GetByEmail(ctx context.Context, email string, role api.Role) (api.Profile, error)
}

var _ ProfileAPI = api.ProfileService{}

// Runner calls the profile API and reports each outcome on Log. Section
// headers from Run go to Out.
type Runner struct {
	Profiles ProfileAPI
	Log      *slog.Logger
	Out      io.Writer
}

// New returns a Runner. A nil logger falls back to slog.Default and a nil
// writer discards headers.
func New(profiles ProfileAPI, log *slog.Logger, out io.Writer) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{Profiles: profiles, Log: log, Out: out}
}

// GetProfile fetches a profile. It returns nil when the call fails.
func (r *Runner) GetProfile(ctx context.Context, userID api.UserID, role api.Role) api.Profile {
	profile, err := r.Profiles.Get(ctx, userID, role)
	if err != nil {
		r.fail(ctx, "Error getting "+roleLabel(role)+" profile", err, "user_id", userID, "role", role)
		return nil
	}
	r.Log.InfoContext(ctx, titleLabel(role)+" Profile", "profile", profile)
	return profile
}

// UpdateProfile replaces a profile. It returns nil when the call fails.
func (r *Runner) UpdateProfile(ctx context.Context, userID api.UserID, role api.Role, data api.Profile) api.Profile {
	profile, err := r.Profiles.Update(ctx, userID, role, data)
	if err != nil {
		r.fail(ctx, "Error updating "+roleLabel(role)+" profile", err, "user_id", userID, "role", role)
		return nil
	}
	r.Log.InfoContext(ctx, "Updated "+titleLabel(role)+" Profile", "profile", profile)
	return profile
}

// PartialUpdateProfile merges data into a profile. It returns nil when the
// call fails.
func (r *Runner) PartialUpdateProfile(ctx context.Context, userID api.UserID, role api.Role, data api.Profile) api.Profile {
	profile, err := r.Profiles.PartialUpdate(ctx, userID, role, data)
	if err != nil {
		r.fail(ctx, "Error partially updating profile", err, "user_id", userID, "role", role)
		return nil
	}
	r.Log.InfoContext(ctx, "Partially Updated Profile", "profile", profile)
	return profile
}

// CheckProfileExists reports whether a profile exists. ok is false when the
// call failed and exists carries no information.
func (r *Runner) CheckProfileExists(ctx context.Context, userID api.UserID, role api.Role) (exists, ok bool) {
	exists, err := r.Profiles.Exists(ctx, userID, role)
	if err != nil {
		r.fail(ctx, "Error checking profile existence", err, "user_id", userID, "role", role)
		return false, false
	}
	r.Log.InfoContext(ctx, fmt.Sprintf("Profile exists for user %s with role %s", userID, role), "exists", exists)
	return exists, true
}

// GetProfileByEmail looks a profile up by email. It returns nil when the
// call fails.
func (r *Runner) GetProfileByEmail(ctx context.Context, email string, role api.Role) api.Profile {
	profile, err := r.Profiles.GetByEmail(ctx, email, role)
	if err != nil {
		r.fail(ctx, "Error getting profile by email", err, "email", email, "role", role)
		return nil
	}
	r.Log.InfoContext(ctx, "Profile by Email", "profile", profile)
	return profile
}

// Run issues the sample calls in order, waiting for each before the next.
// It stops early only when ctx is done.
func (r *Runner) Run(ctx context.Context) {
	const user api.UserID = 1

	steps := []struct {
		header string
		call   func()
	}{
		{"1. Getting Rider Profile:", func() { r.GetProfile(ctx, user, api.RoleRider) }},
		{"2. Getting Driver Profile:", func() { r.GetProfile(ctx, user, api.RoleDriver) }},
		{"3. Updating Rider Profile:", func() { r.UpdateProfile(ctx, user, api.RoleRider, SampleRiderUpdate()) }},
		{"4. Updating Driver Profile:", func() { r.UpdateProfile(ctx, user, api.RoleDriver, SampleDriverUpdate()) }},
		{"5. Partial Update (Rider):", func() { r.PartialUpdateProfile(ctx, user, api.RoleRider, SamplePartialRiderUpdate()) }},
		{"6. Checking Profile Existence:", func() {
			r.CheckProfileExists(ctx, user, api.RoleRider)
			r.CheckProfileExists(ctx, user, api.RoleDriver)
		}},
		{"7. Getting Profile by Email:", func() { r.GetProfileByEmail(ctx, SampleEmail, api.RoleRider) }},
	}

	_, _ = fmt.Fprintln(r.Out, "=== Profile Management API Examples ===")
	for _, step := range steps {
		if ctx.Err() != nil {
			r.Log.WarnContext(ctx, "examples interrupted", "error", ctx.Err())
			return
		}
		_, _ = fmt.Fprintf(r.Out, "\n%s\n", step.header)
		step.call()
	}
}

func (r *Runner) fail(ctx context.Context, msg string, err error, attrs ...any) {
	se := api.StructuredErrorFromError(err)
	attrs = append(attrs, "error", err, "code", se.Code)
	r.Log.ErrorContext(ctx, msg, attrs...)
}

func roleLabel(role api.Role) string {
	return strings.ToLower(role.String())
}

func titleLabel(role api.Role) string {
	s := roleLabel(role)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
