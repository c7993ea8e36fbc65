package model

// Location is the canonical city/area pair shown on listing cards.
type Location struct {
	City string `json:"city"`
	Area string `json:"area"`
}

// Account is the agent or hotel admin that owns a listing. Only the fields used
// for display are decoded; the rest of the owner document never leaves the store.
type Account struct {
	ID          string `json:"id,omitempty"`
	PlanTier    string `json:"planTier,omitempty"`
	Phone       string `json:"phone,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Listing is the normalized view of a hotel or property document.
type Listing struct {
	ID            string         `json:"id"`
	Slug          string         `json:"slug,omitempty"`
	Name          string         `json:"name,omitempty"`
	Description   string         `json:"description,omitempty"`
	PricePerNight float64        `json:"pricePerNight"`
	DisplayPrice  float64        `json:"displayPrice"`
	OriginalPrice float64        `json:"originalPrice"`
	DiscountPrice float64        `json:"discountPrice"`
	HasDiscount   bool           `json:"hasDiscount"`
	Images        []string       `json:"images"`
	Location      Location       `json:"location"`
	Amenities     []string       `json:"amenities"`
	PlanTier      string         `json:"planTier"`
	IsPro         bool           `json:"isPro"`
	IsFeatured    bool           `json:"isFeatured"`
	ContactPhone  string         `json:"contactPhone"`
	CreatedAt     string         `json:"createdAt"`
	Attributes    map[string]any `json:"attributes,omitempty"` // remaining sanitized document fields
}

// Review is a guest review posted against a hotel.
type Review struct {
	HotelID  string  `json:"hotelId" binding:"required"`
	UserID   string  `json:"userId" binding:"required"`
	UserName string  `json:"userName" binding:"required"`
	Rating   float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment  string  `json:"comment" binding:"required"`
}

// ContactRequest is an inquiry left through the contact form.
type ContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Metadata carries the SEO fields rendered into a listing detail page head.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Canonical   string    `json:"canonical"`
	Keywords    []string  `json:"keywords,omitempty"`
	OpenGraph   OpenGraph `json:"openGraph"`
}

// OpenGraph is the social preview block of Metadata.
type OpenGraph struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	SiteName    string   `json:"siteName,omitempty"`
	Images      []string `json:"images"`
	Type        string   `json:"type"`
}
