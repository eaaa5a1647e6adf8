package model

// Partner roles and statuses as stored on the user document.
const (
	RolePartner  = "partner"
	RoleCustomer = "customer"

	PartnerActive    = "active"
	PartnerSuspended = "suspended"

	AvailabilityOnline  = "online"
	AvailabilityOffline = "offline"
)

// Partner application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Partner is the dispatch-relevant slice of a user document with
// role=partner.
type Partner struct {
	ID              string   `json:"id,omitempty" bson:"_id,omitempty"`
	DisplayName     string   `json:"display_name" bson:"display_name"`
	Role            string   `json:"role" bson:"role"`
	Status          string   `json:"status,omitempty" bson:"status,omitempty"`
	Skills          []string `json:"skills,omitempty" bson:"skills,omitempty"`
	Availability    string   `json:"availability,omitempty" bson:"availability,omitempty"`
	Rating          float64  `json:"rating" bson:"rating" validate:"gte=0"`
	CompletedJobs   int      `json:"completed_jobs" bson:"completed_jobs" validate:"gte=0"`
	PriceMultiplier float64  `json:"price_multiplier" bson:"price_multiplier" validate:"omitempty,gt=0"`
	DeviceTokens    []string `json:"-" bson:"device_tokens,omitempty" validate:"omitempty,dive,min=8"`
}

// PartnerApplication is the onboarding record keyed by the applicant's user
// ID. Matching consumes it read-only to enrich partner profiles.
type PartnerApplication struct {
	UserID     string   `json:"user_id" bson:"_id"`
	Status     string   `json:"status" bson:"status"`
	Skills     []string `json:"skills,omitempty" bson:"skills,omitempty"`
	Experience string   `json:"experience,omitempty" bson:"experience,omitempty"`
}

// MatchedPartner is a partner profile joined with its application record.
// The merge is explicit: application skills replace profile skills when
// present, while the profile status always wins over the application status.
type MatchedPartner struct {
	Partner
	ApplicationStatus string `json:"application_status,omitempty" bson:"-"`
	Experience        string `json:"experience,omitempty" bson:"-"`
}

// MatchFilters narrows the eligible partner set. MinRating is a pointer so
// that zero is a usable threshold.
type MatchFilters struct {
	OnlyOnline bool
	MinRating  *float64
}

// Sort orders accepted by the matching engine.
const (
	SortByRating = "rating"
	SortByPrice  = "price"
	SortByJobs   = "jobs"
)
