package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role selects which profile resource the server addresses.
type Role string

const (
	RoleRider  Role = "RIDER"
	RoleDriver Role = "DRIVER"
)

// Roles lists the valid roles in display order.
var Roles = []Role{RoleRider, RoleDriver}

// RoleNames returns the valid roles as strings.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return names
}

// ParseRole parses a role case-insensitively. "USER" is accepted as an
// alias for RIDER, matching the server.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RIDER", "USER":
		return RoleRider, nil
	case "DRIVER":
		return RoleDriver, nil
	}
	return "", NewValidationError("role", s, RoleNames())
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleDriver
}

func (r Role) String() string { return string(r) }

// UserID identifies a profile on the server.
type UserID int64

func (id UserID) String() string { return fmt.Sprintf("%d", int64(id)) }

// Profile is an opaque profile record. The client never validates or
// reshapes it: what the caller supplies is sent, and what the server
// answers is returned.
type Profile map[string]any

// ExistsResponse is the envelope returned by the exists endpoint.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// RiderProfile is a typed view over a rider Profile.
type RiderProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Age      int    `json:"age,omitempty"`
	Location string `json:"location,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DriverProfile is a typed view over a driver Profile.
type DriverProfile struct {
	ID            int64  `json:"id"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Gender        string `json:"gender,omitempty"`
	VehicleNumber string `json:"vehicleNumber,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	VehicleModel  string `json:"vehicleModel,omitempty"`
	VehicleColor  string `json:"vehicleColor,omitempty"`
	Role          string `json:"role,omitempty"`
	Status        string `json:"status,omitempty"`
}

// AsRider decodes the profile into a RiderProfile view. Fields that do not
// fit the view are ignored.
func (p Profile) AsRider() (RiderProfile, error) {
	var v RiderProfile
	err := p.decodeInto(&v)
	return v, err
}

// AsDriver decodes the profile into a DriverProfile view.
func (p Profile) AsDriver() (DriverProfile, error) {
	var v DriverProfile
	err := p.decodeInto(&v)
	return v, err
}

func (p Profile) decodeInto(dst any) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
