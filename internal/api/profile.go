package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/takeme/profilectl/internal/debug"
)

// ProfileService groups the profile resource operations.
type ProfileService struct {
	Requester
	cache      ProfileCache
	cacheScope string
}

func roleQuery(role Role) url.Values {
	return url.Values{"role": []string{string(role)}}
}

// Get fetches the profile of userID for role.
// GET /{userId}?role={role}
func (s ProfileService) Get(ctx context.Context, userID UserID, role Role) (Profile, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	key := profileIDKey(s.cacheScope, role, userID)
	if p, ok := s.cachedProfile(ctx, key); ok {
		return p, nil
	}

	var result Profile
	if err := s.do(ctx, http.MethodGet, s.resourceURL("/"+userID.String(), roleQuery(role)), nil, &result); err != nil {
		return nil, err
	}
	s.storeProfile(ctx, key, result)
	return result, nil
}

// Update replaces the profile of userID with profile and returns the
// server's updated record.
// PUT /{userId}?role={role}
func (s ProfileService) Update(ctx context.Context, userID UserID, role Role, profile Profile) (Profile, error) {
	return s.write(ctx, http.MethodPut, userID, role, profile)
}

// PartialUpdate merges the supplied fields into the profile of userID.
// PATCH /{userId}?role={role}
func (s ProfileService) PartialUpdate(ctx context.Context, userID UserID, role Role, profile Profile) (Profile, error) {
	return s.write(ctx, http.MethodPatch, userID, role, profile)
}

func (s ProfileService) write(ctx context.Context, method string, userID UserID, role Role, profile Profile) (Profile, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	if profile == nil {
		profile = Profile{}
	}

	var result Profile
	if err := s.do(ctx, method, s.resourceURL("/"+userID.String(), roleQuery(role)), profile, &result); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, role, userID, profile, result)
	return result, nil
}

// Exists reports whether a profile exists for userID and role. Only the
// boolean under "exists" is returned, not the envelope.
// GET /{userId}/exists?role={role}
func (s ProfileService) Exists(ctx context.Context, userID UserID, role Role) (bool, error) {
	if err := checkRole(role); err != nil {
		return false, err
	}

	var result ExistsResponse
	if err := s.do(ctx, http.MethodGet, s.resourceURL("/"+userID.String()+"/exists", roleQuery(role)), nil, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

// GetByEmail fetches a profile by email for role. The email is placed in the
// path as given.
// GET /email/{email}?role={role}
func (s ProfileService) GetByEmail(ctx context.Context, email string, role Role) (Profile, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	key := profileEmailKey(s.cacheScope, role, email)
	if p, ok := s.cachedProfile(ctx, key); ok {
		return p, nil
	}

	var result Profile
	if err := s.do(ctx, http.MethodGet, s.resourceURL("/email/"+email, roleQuery(role)), nil, &result); err != nil {
		return nil, err
	}
	s.storeProfile(ctx, key, result)
	return result, nil
}

// ProfileURL is the URL Get, Update and PartialUpdate address.
func (s ProfileService) ProfileURL(userID UserID, role Role) string {
	return s.resourceURL("/"+userID.String(), roleQuery(role))
}

// CurrentURL is the URL GetCurrent and UpdateCurrent address.
func (s ProfileService) CurrentURL(userID UserID, role Role) string {
	return s.resourceURL("/me", currentQuery(userID, role))
}

func currentQuery(userID UserID, role Role) url.Values {
	q := roleQuery(role)
	q.Set("userId", userID.String())
	return q
}

// GetCurrent fetches the caller's own profile.
// GET /me?role={role}&userId={userId}
func (s ProfileService) GetCurrent(ctx context.Context, userID UserID, role Role) (Profile, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	key := profileIDKey(s.cacheScope, role, userID)
	if p, ok := s.cachedProfile(ctx, key); ok {
		return p, nil
	}

	var result Profile
	if err := s.do(ctx, http.MethodGet, s.resourceURL("/me", currentQuery(userID, role)), nil, &result); err != nil {
		return nil, err
	}
	s.storeProfile(ctx, key, result)
	return result, nil
}

// UpdateCurrent updates the caller's own profile.
// PUT /me?role={role}&userId={userId}
func (s ProfileService) UpdateCurrent(ctx context.Context, userID UserID, role Role, profile Profile) (Profile, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	if profile == nil {
		profile = Profile{}
	}

	var result Profile
	if err := s.do(ctx, http.MethodPut, s.resourceURL("/me", currentQuery(userID, role)), profile, &result); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, role, userID, profile, result)
	return result, nil
}

// VehicleTypes lists the distinct vehicle types of registered drivers,
// optionally only those of available drivers.
// GET /vehicle-types?onlyAvailable={bool}
func (s ProfileService) VehicleTypes(ctx context.Context, onlyAvailable bool) ([]string, error) {
	q := url.Values{"onlyAvailable": []string{strconv.FormatBool(onlyAvailable)}}

	var result []string
	if err := s.do(ctx, http.MethodGet, s.resourceURL("/vehicle-types", q), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func checkRole(role Role) error {
	if !role.Valid() {
		return NewValidationError("role", string(role), RoleNames())
	}
	return nil
}

func (s ProfileService) cachedProfile(ctx context.Context, key string) (Profile, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logCacheError(ctx, "get", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		logCacheError(ctx, "decode", key, err)
		return nil, false
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("profile cache hit", "key", key)
	}
	return p, true
}

func (s ProfileService) storeProfile(ctx context.Context, key string, p Profile) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		logCacheError(ctx, "encode", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		logCacheError(ctx, "set", key, err)
	}
}

// invalidateProfile drops the id entry of userID and every email entry the
// write may have made stale: the previously cached email, the email sent and
// the email returned.
func (s ProfileService) invalidateProfile(ctx context.Context, role Role, userID UserID, written ...Profile) {
	if s.cache == nil {
		return
	}
	idKey := profileIDKey(s.cacheScope, role, userID)
	if prev, ok := s.cachedProfile(ctx, idKey); ok {
		written = append(written, prev)
	}

	keys := []string{idKey}
	seen := map[string]bool{}
	for _, p := range written {
		email, ok := p["email"].(string)
		if !ok || email == "" || seen[email] {
			continue
		}
		seen[email] = true
		keys = append(keys, profileEmailKey(s.cacheScope, role, email))
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logCacheError(ctx, "delete", key, err)
		}
	}
}

func logCacheError(ctx context.Context, op, key string, err error) {
	if debug.IsEnabled(ctx) {
		slog.Debug(fmt.Sprintf("profile cache %s failed", op), "key", key, "error", err)
	}
}
