package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability is when a member is open to run skill-exchange sessions.
type Availability string

const (
	AvailabilityWeekend  Availability = "WEEKEND"
	AvailabilityWorking  Availability = "WORKING"
	AvailabilityFlexible Availability = "FLEXIBLE"
)

// ParseAvailability maps free-form input to a known value. Unrecognized
// input returns ok=false; callers treat that as "no filter", never an error.
func ParseAvailability(s string) (Availability, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(AvailabilityWeekend):
		return AvailabilityWeekend, true
	case string(AvailabilityWorking):
		return AvailabilityWorking, true
	case string(AvailabilityFlexible):
		return AvailabilityFlexible, true
	default:
		return "", false
	}
}

type User struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	PasswordHash    string
	Bio             string
	Location        string
	ProfilePhoto    string
	IsProfilePublic bool
	Active          bool
	EmailVerified   bool
	Availability    Availability

	// Rating aggregates are maintained by the review subsystem; this
	// service only reads them.
	AverageRating  float64
	TotalReviews   int
	CompletedSwaps int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Discoverable reports whether the profile passes all three discovery
// gates: public, active and email-verified.
func (u User) Discoverable() bool {
	return u.IsProfilePublic && u.Active && u.EmailVerified
}
