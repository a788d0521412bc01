package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voyago/travel-planner/internal/model"
	"github.com/voyago/travel-planner/internal/queue"
	"github.com/voyago/travel-planner/internal/repository"
	queue_publisher "github.com/voyago/travel-planner/internal/service"
	"github.com/voyago/travel-planner/internal/utils"
)

// PlanStore lists the bookable travel plans. *repository.PlanRepo
// satisfies it.
type PlanStore interface {
	List(ctx context.Context) ([]model.TravelPlan, error)
}

// BookingStore runs the all-or-nothing booking transaction.
// *repository.ReservationRepo satisfies it.
type BookingStore interface {
	Create(ctx context.Context, res *model.Reservation, days []model.ItineraryDay) (*model.TravelPlan, error)
}

// TripHandler serves the destination catalog and the booking endpoint.
type TripHandler struct {
	Plans        PlanStore
	Reservations BookingStore
	AMQPURL      string // empty disables event publishing
}

func NewTripHandler(plans PlanStore, reservations BookingStore, amqpURL string) *TripHandler {
	if plans == nil || reservations == nil {
		panic("nil store passed to NewTripHandler")
	}
	return &TripHandler{Plans: plans, Reservations: reservations, AMQPURL: amqpURL}
}

// destinationDTO is the catalog entry shape the client renders.
type destinationDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// Destinations handles GET /v1/trips/destinations. The response is
// cached by the Redis middleware; an empty catalog is a success with an
// empty array.
func (h *TripHandler) Destinations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	plans, err := h.Plans.List(ctx)
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Unable to load destinations")
	}
	out := make([]destinationDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, destinationDTO{
			ID:          p.ID,
			Name:        p.Title,
			Location:    p.Location,
			Description: p.Description,
			Image:       p.ImageURL,
			Price:       p.Price,
			Duration:    p.Duration,
		})
	}
	return respondOK(c, http.StatusOK, "", out)
}

type bookReq struct {
	UserID        uint64     `json:"userId"`
	DestinationID uint64     `json:"destinationId"`
	TravelDate    string     `json:"travelDate"`
	Travelers     int        `json:"travelers"`
	TotalPrice    float64    `json:"totalPrice"`
	Itinerary     [][]string `json:"itinerary"`
}

// validateBookReq applies the fail-fast precondition checks: every
// required field present and the travel date well-formed. It returns an
// empty string when the request is valid.
func validateBookReq(req bookReq) string {
	if req.UserID == 0 || req.DestinationID == 0 || req.TravelDate == "" ||
		req.Travelers <= 0 || req.TotalPrice <= 0 {
		return "Incomplete data"
	}
	if _, err := time.Parse("2006-01-02", req.TravelDate); err != nil {
		return "travelDate must be YYYY-MM-DD"
	}
	return ""
}

// buildItineraryDays turns the submitted day arrays into rows with
// 1-indexed contiguous day numbers. Missing slots default to the empty
// string, extra slots beyond the third are ignored.
func buildItineraryDays(itinerary [][]string) []model.ItineraryDay {
	days := make([]model.ItineraryDay, 0, len(itinerary))
	for i, slots := range itinerary {
		d := model.ItineraryDay{DayNumber: i + 1}
		if len(slots) > 0 {
			d.Morning = slots[0]
		}
		if len(slots) > 1 {
			d.Afternoon = slots[1]
		}
		if len(slots) > 2 {
			d.Evening = slots[2]
		}
		days = append(days, d)
	}
	return days
}

// Book handles POST /v1/trips/book. Validation failures never touch the
// database; everything after that happens inside one transaction in the
// store, so a failure at any point leaves no partial reservation behind.
func (h *TripHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	if msg := validateBookReq(req); msg != "" {
		return respondErr(c, http.StatusBadRequest, CodeInvalidRequest, msg)
	}

	ref, err := utils.NewBookingReference()
	if err != nil {
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "failed to generate booking reference")
	}

	res := &model.Reservation{
		UserID:           req.UserID,
		TravelPlanID:     req.DestinationID,
		TravelDate:       req.TravelDate,
		NumPeople:        req.Travelers,
		TotalPrice:       req.TotalPrice,
		Status:           model.StatusConfirmed,
		BookingReference: ref,
	}
	days := buildItineraryDays(req.Itinerary)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	plan, err := h.Reservations.Create(ctx, res, days)
	if err != nil {
		if err == repository.ErrPlanNotFound {
			return respondErr(c, http.StatusNotFound, CodeNotFound, "Destination not found")
		}
		// The transaction has been rolled back; surface the cause.
		return respondErr(c, http.StatusInternalServerError, CodeInternal, "Error: "+err.Error())
	}

	h.publishConfirmed(res, plan, len(days))

	return respondOK(c, http.StatusCreated, "Reservation successful", echo.Map{
		"reservationId":    res.ID,
		"bookingReference": res.BookingReference,
	})
}

// publishConfirmed emits the booking.confirmed event in the background.
// The reservation is already committed; a broker failure only loses the
// event, never the booking.
func (h *TripHandler) publishConfirmed(res *model.Reservation, plan *model.TravelPlan, dayCount int) {
	if h.AMQPURL == "" {
		return
	}
	ev := queue.BookingConfirmedEvent{
		ReservationID:    res.ID,
		BookingReference: res.BookingReference,
		UserID:           res.UserID,
		TravelPlanID:     plan.ID,
		PlanTitle:        plan.Title,
		PlanLocation:     plan.Location,
		TravelDate:       res.TravelDate,
		NumPeople:        res.NumPeople,
		TotalPrice:       res.TotalPrice,
		ItineraryDays:    dayCount,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingConfirmed(ctx, h.AMQPURL, ev)
	}()
}
