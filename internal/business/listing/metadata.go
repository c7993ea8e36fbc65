package listing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/staynest/listings-api/pkg/model"
)

const (
	maxDescriptionLen = 160
	maxOpenGraphImage = 4
)

// Site identifies the public site metadata links point at.
type Site struct {
	BaseURL string
	Name    string
}

// BuildMetadata renders the head metadata for a listing detail page.
func BuildMetadata(c Catalog, l model.Listing, site Site) model.Metadata {
	name := l.Name
	if name == "" {
		name = "Listing"
		if c.Name != "" {
			name = strings.ToUpper(c.Name[:1]) + c.Name[1:]
		}
	}
	place := l.Location.City
	if l.Location.Area != UnknownArea {
		place = l.Location.Area + ", " + l.Location.City
	}

	title := fmt.Sprintf("%s in %s", name, l.Location.City)
	if site.Name != "" {
		title += " | " + site.Name
	}

	desc := truncate(l.Description, maxDescriptionLen)
	if desc == "" {
		desc = fmt.Sprintf("%s in %s from %s.", name, place, formatPrice(l.DisplayPrice))
		if len(l.Amenities) > 0 {
			desc += " Amenities: " + strings.Join(l.Amenities, ", ") + "."
		}
		desc = truncate(desc, maxDescriptionLen)
	}

	key := l.Slug
	if key == "" {
		key = l.ID
	}
	canonical := strings.TrimRight(site.BaseURL, "/") + c.PathPrefix + "/" + key

	images := l.Images
	if len(images) > maxOpenGraphImage {
		images = images[:maxOpenGraphImage]
	}

	keywords := []string{name, l.Location.City}
	if l.Location.Area != UnknownArea {
		keywords = append(keywords, l.Location.Area)
	}
	keywords = append(keywords, l.Amenities...)

	return model.Metadata{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		Keywords:    keywords,
		OpenGraph: model.OpenGraph{
			Title:       title,
			Description: desc,
			URL:         canonical,
			SiteName:    site.Name,
			Images:      append([]string(nil), images...),
			Type:        "website",
		},
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}
