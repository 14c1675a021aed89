// Package avatar derives user avatar URLs from email addresses.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public Gravatar image endpoint.
const DefaultBaseURL = "https://www.gravatar.com/avatar/"

// Resolver maps a user email to an avatar image URL.
type Resolver interface {
	AvatarURL(email string) string
}

// Gravatar builds Gravatar-style avatar URLs.
// The zero value uses DefaultBaseURL with no query parameters.
type Gravatar struct {
	// BaseURL is the avatar endpoint; the hash is appended to it.
	BaseURL string
	// Size requests a square image of this many pixels. Zero omits it.
	Size int
	// Default is the fallback image keyword or URL ("identicon", "mp", ...).
	Default string
}

// NewGravatar creates a Gravatar resolver.
func NewGravatar(baseURL string, size int, fallback string) *Gravatar {
	return &Gravatar{
		BaseURL: baseURL,
		Size:    size,
		Default: fallback,
	}
}

// AvatarURL returns the avatar URL for email.
func (g *Gravatar) AvatarURL(email string) string {
	base := g.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	u := base + Hash(email)

	q := url.Values{}
	if g.Size > 0 {
		q.Set("s", strconv.Itoa(g.Size))
	}
	if g.Default != "" {
		q.Set("d", g.Default)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}

// Hash returns the hex MD5 of the trimmed, lowercased email.
func Hash(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
