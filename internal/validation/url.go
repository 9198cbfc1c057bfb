package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// LinkValidator checks URLs before they are handed to an external opener.
type LinkValidator struct {
	// AllowedHosts restricts links to these hosts and their subdomains.
	// Empty allows any public host.
	AllowedHosts []string
	// AllowHTTP permits plain http links
	AllowHTTP bool
	// AllowLocalhost permits localhost and loopback targets
	AllowLocalhost bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewLinkValidator returns a validator that only accepts https links to
// the given hosts.
func NewLinkValidator(hosts ...string) *LinkValidator {
	allowed := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed = append(allowed, h)
		}
	}
	return &LinkValidator{
		AllowedHosts: allowed,
		MaxLength:    2048,
	}
}

// NewPermissiveLinkValidator is used against local test servers.
func NewPermissiveLinkValidator() *LinkValidator {
	return &LinkValidator{
		AllowHTTP:      true,
		AllowLocalhost: true,
		MaxLength:      2048,
	}
}

// Validate returns the normalized form of input or the reason it is refused.
func (v *LinkValidator) Validate(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch parsedURL.Scheme {
	case "https":
	case "http":
		if !v.AllowHTTP {
			return "", fmt.Errorf("URL must use https")
		}
	default:
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsedURL.User != nil {
		return "", fmt.Errorf("URL must not carry credentials")
	}

	hostname := strings.ToLower(parsedURL.Hostname())

	if !v.AllowLocalhost {
		if isLocalhost(hostname) {
			return "", fmt.Errorf("localhost URLs are not permitted")
		}
		if ip := net.ParseIP(hostname); ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()) {
			return "", fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if len(v.AllowedHosts) > 0 && !hostAllowed(hostname, v.AllowedHosts) {
		return "", fmt.Errorf("host %s is not permitted", hostname)
	}

	return parsedURL.String(), nil
}

// HostOf extracts the lowercase hostname of raw, or "" if it has none.
func HostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func hostAllowed(hostname string, allowed []string) bool {
	for _, h := range allowed {
		if hostname == h || strings.HasSuffix(hostname, "."+h) {
			return true
		}
	}
	return false
}

// isLocalhost checks if a hostname refers to localhost
func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "127.0.0.1" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost")
}
