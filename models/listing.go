// models/listing.go
package models

import "time"

// Listing kinds.
const (
	ListingKindVendor = "vendor"
	ListingKindVenue  = "venue"
)

// Booking duration policies a listing may declare.
const (
	DurationPerHour = "Per Hour"
	DurationPerDay  = "Per Day"
)

// ScheduleWindow is one recurring weekly open window of a listing's working
// schedule. Start and End are wall-clock "HH:MM" strings with Start < End;
// a weekday may carry zero, one, or several disjoint windows.
type ScheduleWindow struct {
	Day   string `bson:"day" json:"day"`     // "Monday" .. "Sunday"
	Start string `bson:"start" json:"start"` // "09:00"
	End   string `bson:"end" json:"end"`     // "17:00"
}

// Plan is a priced package offered by a listing.
type Plan struct {
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
}

// Addon is an optional extra that can accompany a plan.
type Addon struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// HotDealRef is the active promotion snapshot denormalized onto a listing.
type HotDealRef struct {
	PromotionID string    `bson:"promotionId" json:"promotionId"`
	PercentOff  int       `bson:"percentOff" json:"percentOff"`
	EndsAt      time.Time `bson:"endsAt" json:"endsAt"`
}

// Listing is a bookable vendor or venue offering.
type Listing struct {
	ID          string   `bson:"id" json:"id"`
	ProviderID  string   `bson:"providerId" json:"providerId"`
	Kind        string   `bson:"kind" json:"kind"` // "vendor" or "venue"
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Category    string   `bson:"category,omitempty" json:"category,omitempty"`
	Address     string   `bson:"address,omitempty" json:"address,omitempty"`
	LocationGeo GeoPoint `bson:"locationGeo" json:"locationGeo"`
	Photos      []string `bson:"photos,omitempty" json:"photos,omitempty"` // external media URLs
	Plans       []Plan   `bson:"plans,omitempty" json:"plans,omitempty"`
	Addons      []Addon  `bson:"addons,omitempty" json:"addons,omitempty"`

	// Booking policy. BookingDuration is the maximum length in hours or days
	// depending on BookingDurationType; zero means no limit.
	BookingDurationType string `bson:"bookingDurationType,omitempty" json:"bookingDurationType,omitempty"`
	BookingDuration     int    `bson:"bookingDuration,omitempty" json:"bookingDuration,omitempty"`

	// Recurring weekly working schedule; read-only from the booking engine's
	// perspective for the duration of a calendar session.
	WorkingSchedule []ScheduleWindow `bson:"workingSchedule,omitempty" json:"workingSchedule,omitempty"`

	// Denormalized review aggregates.
	AvgRating   float64 `bson:"avgRating" json:"avgRating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`

	// Active hot deal, if any.
	HotDeal *HotDealRef `bson:"hotDeal,omitempty" json:"hotDeal,omitempty"`

	// Bumped inside every booking reservation transaction so that
	// concurrent reservations against the same listing write-conflict.
	ReservationVersion int64 `bson:"reservationVersion" json:"-"`

	Published bool      `bson:"published" json:"published"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ListingFilter captures search parameters for the listing index.
type ListingFilter struct {
	Kind     string   `json:"kind,omitempty"`
	Category string   `json:"category,omitempty"`
	Text     string   `json:"text,omitempty"`
	MinPrice float64  `json:"minPrice,omitempty"`
	MaxPrice float64  `json:"maxPrice,omitempty"`
	Near     *GeoNear `json:"near,omitempty"`
	Page     int64    `json:"page,omitempty"`
	PageSize int64    `json:"pageSize,omitempty"`
}

// GeoNear restricts a search to listings within MaxMeters of a point.
type GeoNear struct {
	Lng       float64 `json:"lng"`
	Lat       float64 `json:"lat"`
	MaxMeters float64 `json:"maxMeters"`
}
