// Package audio maps assistant outcomes to pre-recorded prompt URLs.
package audio

import (
	"strconv"
	"strings"

	"github.com/cabswale/raahi/internal/domain/intent"
)

// Catalog resolves prompt keys to absolute URLs. It is read-only after construction.
type Catalog struct {
	baseURL string
	files   map[string]string
}

// NewCatalog creates a catalog. File names that are already absolute URLs
// are used as is; others are joined to baseURL.
func NewCatalog(baseURL string, files map[string]string) *Catalog {
	c := &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		files:   make(map[string]string, len(files)),
	}
	for k, v := range files {
		if v = strings.TrimSpace(v); v != "" {
			c.files[strings.ToLower(k)] = v
		}
	}
	return c
}

// URL picks the most specific prompt for an intent. Candidates, first hit wins:
//
//	<intent>_home_<n>, <intent>_home, <intent>_<n>, <intent>
//
// n is the interaction count, or the request count when no interaction
// count was sent. Home variants are tried only when isHome is set.
// Returns "" when nothing is configured.
func (c *Catalog) URL(t intent.Type, interactionCount int, isHome bool, requestCount int) string {
	n := interactionCount
	if n <= 0 {
		n = requestCount
	}
	base := string(t)

	candidates := make([]string, 0, 4)
	if isHome {
		if n > 0 {
			candidates = append(candidates, base+"_home_"+strconv.Itoa(n))
		}
		candidates = append(candidates, base+"_home")
	}
	if n > 0 {
		candidates = append(candidates, base+"_"+strconv.Itoa(n))
	}
	candidates = append(candidates, base)

	for _, key := range candidates {
		if u := c.Direct(key); u != "" {
			return u
		}
	}
	return ""
}

// Direct returns the URL for an exact key, "" when not configured.
func (c *Catalog) Direct(key string) string {
	file, ok := c.files[strings.ToLower(key)]
	if !ok {
		return ""
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || c.baseURL == "" {
		return file
	}
	return c.baseURL + "/" + strings.TrimLeft(file, "/")
}
