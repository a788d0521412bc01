// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published after a reservation transaction
// commits. It carries enough for downstream consumers (booking log,
// notifications, analytics) to act without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID    uint64  `json:"reservation_id"`
	BookingReference string  `json:"booking_reference"`
	UserID           uint64  `json:"user_id"`
	TravelPlanID     uint64  `json:"travel_plan_id"`
	PlanTitle        string  `json:"plan_title"`
	PlanLocation     string  `json:"plan_location"`
	TravelDate       string  `json:"travel_date"`
	NumPeople        int     `json:"num_people"`
	TotalPrice       float64 `json:"total_price"`
	ItineraryDays    int     `json:"itinerary_days"`
	ConfirmedAt      string  `json:"confirmed_at"`
}
