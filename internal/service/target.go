package service

import (
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("invalid URL format")

// Target is a user-supplied site after normalisation.
type Target struct {
	URL    string
	Origin string
	Domain string
}

// NormalizeTarget prefixes https:// when no http(s) scheme is given and
// requires the result to have a scheme and host. Origin and Domain are
// lowercased.
func NormalizeTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return Target{}, ErrInvalidURL
	}

	return Target{
		URL:    raw,
		Origin: u.Scheme + "://" + strings.ToLower(u.Host),
		Domain: strings.ToLower(u.Hostname()),
	}, nil
}
