package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

// ResolveUsername turns a profile route segment such as "%40alice" or
// "@alice" into the username it addresses.
func ResolveUsername(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err)
	}

	username := strings.Replace(decoded, "@", "", 1)
	if username == "" {
		return "", domain.ErrInvalidProfile
	}
	return username, nil
}
