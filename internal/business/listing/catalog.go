package listing

// TierRule decides whether a resolved plan tier earns the "pro" badge.
type TierRule func(tier string) bool

// ProOnly grants the badge to the exact "pro" tier. Hotel listings use it.
func ProOnly(tier string) bool {
	return tier == PlanPro
}

// PaidTier grants the badge to every paid tier. Property listings use it.
func PaidTier(tier string) bool {
	switch tier {
	case PlanPro, PlanPremium, PlanAgentPro:
		return true
	}
	return false
}

// Catalog describes one listing collection and the account collection its
// documents reference.
type Catalog struct {
	Name              string
	Collection        string
	AccountCollection string
	OwnerField        string
	NotFoundMessage   string
	PathPrefix        string
	IsPro             TierRule
}

var (
	Hotels = Catalog{
		Name:              "hotel",
		Collection:        "hotels",
		AccountCollection: "hotelAdmins",
		OwnerField:        "hotelAdminId",
		NotFoundMessage:   "Hotel not found",
		PathPrefix:        "/hotels",
		IsPro:             ProOnly,
	}
	Properties = Catalog{
		Name:              "property",
		Collection:        "properties",
		AccountCollection: "agents",
		OwnerField:        "agentId",
		NotFoundMessage:   "Property not found",
		PathPrefix:        "/properties",
		IsPro:             PaidTier,
	}
)

func (c Catalog) isPro(tier string) bool {
	if c.IsPro == nil {
		return ProOnly(tier)
	}
	return c.IsPro(tier)
}
