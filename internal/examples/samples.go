package examples

import "github.com/takeme/profilectl/internal/api"

// SampleEmail is the address looked up by Run.
const SampleEmail = "john@example.com"

// SampleRiderUpdate is the full rider record Run sends with PUT.
func SampleRiderUpdate() api.Profile {
	return api.Profile{
		"username": "john_doe_updated",
		"phone":    "+1234567890",
		"age":      26,
		"location": "New York",
		"avatar":   "https://example.com/avatar.jpg",
	}
}

// SampleDriverUpdate is the driver record Run sends with PUT.
func SampleDriverUpdate() api.Profile {
	return api.Profile{
		"name":          "Jane Smith",
		"licenseNumber": "DL123456789",
		"status":        "ONLINE",
	}
}

// SamplePartialRiderUpdate holds the rider fields Run changes with PATCH.
// Each call returns a fresh map.
func SamplePartialRiderUpdate() api.Profile {
	return api.Profile{
		"phone":    "+9876543210",
		"location": "Los Angeles",
	}
}
