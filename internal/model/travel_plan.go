package model

import "time"

// TravelPlan is a bookable destination package: a place, a price and a
// fixed duration in days. Plans are read-only from the booking flow's
// perspective; they are looked up, never mutated, when a reservation is
// created.
type TravelPlan struct {
	ID          uint64    // travel_plans.id
	Title       string    // travel_plans.title
	Location    string    // travel_plans.location
	Description string    // travel_plans.description
	ImageURL    string    // travel_plans.image_url
	Price       float64   // travel_plans.price
	Duration    int       // travel_plans.duration (days)
	CreatedAt   time.Time // travel_plans.created_at
}
