package listing

import (
	"strings"

	"github.com/staynest/listings-api/internal/repository"
)

// Filters are the optional request filters for a listing read.
type Filters struct {
	ID       string
	Featured bool
	City     string
	Limit    int
}

// BuildQuery assembles the ordered constraint set for a collection read:
// newest first, capped at the limit, optionally narrowed to featured listings
// and to one city.
func BuildQuery(collection string, f Filters) repository.QuerySpec {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	constraints := []repository.Constraint{
		repository.OrderBy(fieldCreatedAt, repository.Desc),
		repository.Limit(limit),
	}
	if f.Featured {
		constraints = append(constraints, repository.Where(fieldIsFeatured, "==", true))
	}
	if city := strings.TrimSpace(f.City); city != "" && city != AllCities {
		constraints = append(constraints, repository.Where(fieldLocation+"."+fieldCity, "==", city))
	}

	return repository.QuerySpec{
		Collection:  collection,
		Constraints: constraints,
	}
}
