package model

import "time"

// Reservation statuses. A reservation is created as confirmed and only
// ever transitions to cancelled through the cancel endpoint; "completed"
// exists in the schema for clients that derive it from the travel date
// but is never written by the API.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Reservation links a user to a travel plan for a given date and party
// size. The booking reference is generated once at creation time and
// persisted; it is the human-facing code, distinct from the numeric ID.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who booked the trip.
//  TravelPlanID     – destination being booked.
//  TravelDate       – first day of travel (YYYY-MM-DD).
//  NumPeople        – traveler count.
//  TotalPrice       – total price charged for the party.
//  Status           – confirmed | cancelled | completed.
//  BookingReference – short code like "TP-7XK2MNPQ".
//  CreatedAt        – creation timestamp, used for listing order.
//  UpdatedAt        – last status change.
type Reservation struct {
	ID               uint64    // reservations.id
	UserID           uint64    // reservations.user_id
	TravelPlanID     uint64    // reservations.travel_plan_id
	TravelDate       string    // reservations.travel_date
	NumPeople        int       // reservations.num_people
	TotalPrice       float64   // reservations.total_price
	Status           string    // reservations.status
	BookingReference string    // reservations.booking_reference
	CreatedAt        time.Time // reservations.created_at
	UpdatedAt        time.Time // reservations.updated_at
}

// ItineraryDay is one day of a reservation's itinerary: three free-text
// activity slots. Day numbers are 1-indexed and contiguous, matching the
// position in the itinerary array submitted at booking time. Rows are
// created atomically with their reservation and never mutated afterwards.
type ItineraryDay struct {
	ID            uint64 // itinerary_days.id
	ReservationID uint64 // itinerary_days.reservation_id
	DayNumber     int    // itinerary_days.day_number
	Morning       string // itinerary_days.morning_activity
	Afternoon     string // itinerary_days.afternoon_activity
	Evening       string // itinerary_days.evening_activity
}
