package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// cloudMetadataHosts are instance metadata endpoints. A profile API never
// lives there, so a base URL pointing at one is refused.
var cloudMetadataHosts = []string{
	"169.254.169.254",
	"metadata.google.internal",
	"metadata.goog",
	"100.100.100.200",
	"fd00:ec2::254",
}

// ValidateBaseURL checks the profile API base URL. Local and private hosts
// are allowed since the default server runs on localhost.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("base URL exceeds maximum length of %d characters", MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid base URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme: must be http or https, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("invalid base URL %q: must contain a hostname", rawURL)
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("invalid base URL %q: cloud metadata endpoints are not allowed", rawURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid base URL %q: must not carry a query or fragment", rawURL)
	}
	return nil
}

func isCloudMetadata(hostname string) bool {
	h := strings.ToLower(strings.TrimSuffix(hostname, "."))
	for _, m := range cloudMetadataHosts {
		if h == m {
			return true
		}
	}
	return false
}
