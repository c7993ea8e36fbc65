package listing

import "time"

// Every fallback the normalizer and query builder apply lives here so callers
// and tests can enumerate them.
const (
	// DefaultPlanTier is used when neither the account nor the listing names a tier.
	DefaultPlanTier = PlanFree
	// UnknownCity and UnknownArea fill a location that has no usable value.
	UnknownCity = "Unknown City"
	UnknownArea = "Unknown Area"
	// PlaceholderImageURL stands in for a listing without images.
	PlaceholderImageURL = "https://placehold.co/600x400?text=No+Image"
	// DefaultLimit caps a collection read when the caller gives no usable limit.
	DefaultLimit = 50
	// AllCities is the city filter value that disables city filtering.
	AllCities = "All Cities"
	// DefaultFetchTimeout bounds one outbound document read.
	DefaultFetchTimeout = 5 * time.Second
	// DefaultFanOutLimit caps concurrent owner-account reads per request.
	DefaultFanOutLimit = 8
	// DefaultReadAttempts is how many times an idempotent read is tried.
	DefaultReadAttempts = 2
)

// Plan tiers stored on accounts and listings.
const (
	PlanFree     = "free"
	PlanPro      = "pro"
	PlanPremium  = "premium"
	PlanAgentPro = "agent_pro"
)

// Document field names read by the normalizer.
const (
	fieldID            = "id"
	fieldSlug          = "slug"
	fieldName          = "name"
	fieldTitle         = "title"
	fieldDescription   = "description"
	fieldPrice         = "price"
	fieldPricePerNight = "pricePerNight"
	fieldDiscountPrice = "discountPrice"
	fieldHasDiscount   = "hasDiscount"
	fieldImages        = "images"
	fieldLocation      = "location"
	fieldCity          = "city"
	fieldArea          = "area"
	fieldAmenities     = "amenities"
	fieldPlanTier      = "planTier"
	fieldIsFeatured    = "isFeatured"
	fieldPhone         = "phone"
	fieldPhoneNumber   = "phoneNumber"
	fieldCreatedAt     = "createdAt"
	fieldUpdatedAt     = "updatedAt"
	fieldSubExpiresAt  = "subscriptionExpiresAt"
)

// basePriceFields are tried in order to find a listing's base price.
var basePriceFields = []string{fieldPrice, fieldPricePerNight}

// amenityFlags maps the legacy boolean amenity flags to display labels, in
// display order.
var amenityFlags = []struct {
	Flag  string
	Label string
}{
	{"hasWifi", "Wi-Fi"},
	{"hasPool", "Swimming Pool"},
	{"hasGym", "Gym"},
	{"hasRestaurant", "Restaurant"},
	{"hasParking", "Parking"},
	{"hasAC", "Air Conditioning"},
}
