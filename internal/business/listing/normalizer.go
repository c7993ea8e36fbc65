package listing

import (
	"math"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cast"
	"github.com/staynest/listings-api/internal/repository"
	"github.com/staynest/listings-api/pkg/model"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// consumedFields are decoded into typed Listing fields and left out of
// Listing.Attributes.
var consumedFields = map[string]bool{
	fieldID: true, fieldSlug: true, fieldName: true, fieldTitle: true,
	fieldDescription: true, fieldPrice: true, fieldPricePerNight: true,
	fieldDiscountPrice: true, fieldHasDiscount: true, fieldImages: true,
	fieldLocation: true, fieldCity: true, fieldArea: true, fieldAmenities: true,
	fieldPlanTier: true, fieldIsFeatured: true, fieldPhone: true,
	fieldCreatedAt: true,
}

// Normalize merges a raw listing document with its owning account into the
// canonical Listing shape. It never fails: every missing or malformed field
// falls back to a default from defaults.go. now is only used when the document
// carries no usable creation time.
func Normalize(c Catalog, doc repository.Document, account model.Account, now time.Time) model.Listing {
	data := doc.Data
	if data == nil {
		data = map[string]any{}
	}

	basePrice := firstNumber(data, basePriceFields...)
	discount := toNumber(data[fieldDiscountPrice])
	hasDiscount := truthy(data[fieldHasDiscount]) && discount > 0

	price := basePrice
	if hasDiscount {
		price = discount
	}

	tier := resolvePlanTier(account, data)

	id := doc.ID
	if id == "" {
		id = toString(data[fieldID])
	}
	name := toString(data[fieldName])
	if name == "" {
		name = toString(data[fieldTitle])
	}

	return model.Listing{
		ID:            id,
		Slug:          toString(data[fieldSlug]),
		Name:          name,
		Description:   toString(data[fieldDescription]),
		PricePerNight: price,
		DisplayPrice:  price,
		OriginalPrice: basePrice,
		DiscountPrice: discount,
		HasDiscount:   hasDiscount,
		Images:        decodeImages(data[fieldImages]),
		Location:      decodeLocation(data),
		Amenities:     decodeAmenities(data[fieldAmenities]),
		PlanTier:      tier,
		IsPro:         c.isPro(tier),
		IsFeatured:    truthy(data[fieldIsFeatured]),
		ContactPhone:  firstNonEmpty(account.Phone, account.PhoneNumber, toString(data[fieldPhone])),
		CreatedAt:     displayTimestamp(data[fieldCreatedAt], now),
		Attributes:    attributes(data, c.OwnerField),
	}
}

// DecodeAccount reads the display fields of an owner document.
func DecodeAccount(doc repository.Document) model.Account {
	return model.Account{
		ID:          doc.ID,
		PlanTier:    toString(doc.Data[fieldPlanTier]),
		Phone:       toString(doc.Data[fieldPhone]),
		PhoneNumber: toString(doc.Data[fieldPhoneNumber]),
	}
}

// OwnerID returns the owning account id referenced by a listing document. The
// reference may be stored as a plain id or as a document reference.
func OwnerID(c Catalog, doc repository.Document) string {
	switch ref := doc.Data[c.OwnerField].(type) {
	case string:
		return strings.TrimSpace(ref)
	case *firestore.DocumentRef:
		if ref != nil {
			return ref.ID
		}
	}
	return ""
}

func resolvePlanTier(account model.Account, data map[string]any) string {
	return firstNonEmpty(account.PlanTier, toString(data[fieldPlanTier]), DefaultPlanTier)
}

// decodeAmenities accepts either a display list or the legacy flag object.
func decodeAmenities(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case map[string]any:
		out := []string{}
		for _, a := range amenityFlags {
			if truthy(t[a.Flag]) {
				out = append(out, a.Label)
			}
		}
		return out
	}
	return []string{}
}

// decodeLocation prefers the nested location object, then the flat city/area
// fields, then a bare location string as the city.
func decodeLocation(data map[string]any) model.Location {
	var city, area, bare string
	switch loc := data[fieldLocation].(type) {
	case map[string]any:
		city = toString(loc[fieldCity])
		area = toString(loc[fieldArea])
	case string:
		bare = strings.TrimSpace(loc)
	}
	return model.Location{
		City: firstNonEmpty(city, toString(data[fieldCity]), bare, UnknownCity),
		Area: firstNonEmpty(area, toString(data[fieldArea]), UnknownArea),
	}
}

func decodeImages(v any) []string {
	var images []string
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				images = append(images, s)
			}
		}
	case []any:
		for _, item := range t {
			if s := toString(item); s != "" {
				images = append(images, s)
			}
		}
	}
	if len(images) == 0 {
		return []string{PlaceholderImageURL}
	}
	return images
}

// displayTimestamp renders a creation time for display. Values already
// rewritten by Sanitize are kept.
func displayTimestamp(v any, now time.Time) string {
	switch t := v.(type) {
	case time.Time:
		if !t.IsZero() {
			return formatISO(t)
		}
	case *time.Time:
		if t != nil && !t.IsZero() {
			return formatISO(*t)
		}
	case *timestamppb.Timestamp:
		if t != nil && t.IsValid() {
			return formatISO(t.AsTime())
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t)); err == nil {
			return formatISO(parsed)
		}
	case map[string]any:
		if secs, ok := epochSeconds(t); ok {
			return formatISO(time.Unix(secs, 0))
		}
	}
	return formatISO(now)
}

func attributes(data map[string]any, ownerField string) map[string]any {
	rest := make(map[string]any)
	for k, v := range data {
		if consumedFields[k] || k == ownerField {
			continue
		}
		rest[k] = v
	}
	if len(rest) == 0 {
		return nil
	}
	return Sanitize(rest)
}

func firstNumber(data map[string]any, fields ...string) float64 {
	for _, f := range fields {
		if v, ok := data[f]; ok && v != nil {
			return toNumber(v)
		}
	}
	return 0
}

// toNumber coerces a stored value to a finite number, 0 when it is not one.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil, bool:
		return 0
	case string:
		v = strings.TrimSpace(t)
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// truthy reports whether a stored flag is set. Strings that parse as booleans
// use that value; any other non-blank string counts as set.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		if b, err := cast.ToBoolE(s); err == nil {
			return b
		}
		return s != ""
	}
	return toNumber(v) != 0
}

func toString(v any) string {
	switch t := v.(type) {
	case nil, map[string]any, []any:
		return ""
	case string:
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(cast.ToString(v))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
