package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/voyago/travel-planner/internal/model"
)

// ReservationRepo provides storage for reservations and their itinerary
// days. A reservation groups a travel-plan booking with N day rows; the
// two are only ever written together, inside one transaction, so readers
// never observe a header without its full itinerary.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// PlanSnapshot is the destination summary embedded in a listed
// reservation. Field names follow the client contract.
type PlanSnapshot struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Image    string `json:"image"`
	Duration int    `json:"duration"`
}

// ReservationDetail is a reservation joined with its travel plan and the
// assembled [morning, afternoon, evening] triple per itinerary day. It
// is the shape returned to customers by ListByUser.
type ReservationDetail struct {
	ID               uint64       `json:"id"`
	Destination      PlanSnapshot `json:"destination"`
	Date             string       `json:"date"`
	People           int          `json:"people"`
	TotalPrice       float64      `json:"totalPrice"`
	Status           string       `json:"status"`
	BookingReference string       `json:"bookingReference"`
	Itinerary        [][]string   `json:"itinerary"`
}

// Create books a trip: it resolves the travel plan, inserts the
// reservation header and bulk-inserts the itinerary day rows, all inside
// a single transaction. Any failure rolls the whole thing back so no
// partial itinerary is ever visible. On success the reservation's ID and
// timestamps are populated and the resolved plan is returned so callers
// can build event payloads without another query.
//
// The caller is expected to have set UserID, TravelPlanID, TravelDate,
// NumPeople, TotalPrice, Status and BookingReference on res, and a
// contiguous 1..N DayNumber sequence on days.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, days []model.ItineraryDay) (*model.TravelPlan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	plan, err := getPlanByIDTx(ctx, tx, res.TravelPlanID)
	if err != nil {
		return nil, err
	}

	const ins = `INSERT INTO reservations
	             (user_id, travel_plan_id, travel_date, num_people, total_price, status, booking_reference)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.UserID, res.TravelPlanID, res.TravelDate, res.NumPeople,
		res.TotalPrice, res.Status, res.BookingReference)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	res.ID = uint64(id)

	// Query back the row to populate timestamp defaults.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}

	if err := createDaysBulkTx(ctx, tx, res.ID, days); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return plan, nil
}

// createDaysBulkTx inserts all itinerary day rows in a single statement.
// Passing an empty slice has no effect and returns nil.
func createDaysBulkTx(ctx context.Context, tx *sql.Tx, reservationID uint64, days []model.ItineraryDay) error {
	if len(days) == 0 {
		return nil
	}
	query := `INSERT INTO itinerary_days
	          (reservation_id, day_number, morning_activity, afternoon_activity, evening_activity) VALUES `
	args := make([]interface{}, 0, len(days)*5)
	for i, d := range days {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, reservationID, d.DayNumber, d.Morning, d.Afternoon, d.Evening)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByUser returns all reservations for the given user joined with
// their travel plan and itinerary, newest booking first. When no
// reservations exist an empty slice is returned, not an error.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.travel_date, r.num_people, r.total_price, r.status, r.booking_reference,
	                  tp.id, tp.title, tp.location, tp.image_url, tp.duration
	           FROM reservations r
	           JOIN travel_plans tp ON tp.id = r.travel_plan_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ReservationDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReservationDetail
		var travelDate time.Time
		if err := rows.Scan(
			&d.ID, &travelDate, &d.People, &d.TotalPrice, &d.Status, &d.BookingReference,
			&d.Destination.ID, &d.Destination.Name, &d.Destination.Location,
			&d.Destination.Image, &d.Destination.Duration,
		); err != nil {
			return nil, err
		}
		d.Date = travelDate.Format("2006-01-02")
		d.Itinerary = [][]string{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// Fetch itinerary days for all reservations in one query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	dayQuery := `SELECT reservation_id, morning_activity, afternoon_activity, evening_activity
	             FROM itinerary_days
	             WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	             ORDER BY reservation_id, day_number`
	drows, err := r.db.QueryContext(ctx, dayQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var rid uint64
		var morning, afternoon, evening string
		if err := drows.Scan(&rid, &morning, &afternoon, &evening); err != nil {
			return nil, err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].Itinerary = append(details[idx].Itinerary, []string{morning, afternoon, evening})
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// CancelForUser transitions a reservation to cancelled, but only when it
// belongs to the given user. It returns sql.ErrNoRows when the
// reservation does not exist and ErrForbidden when it is owned by
// someone else; in both cases the row is left untouched.
func (r *ReservationRepo) CancelForUser(ctx context.Context, userID, reservationID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM reservations WHERE id = ?", reservationID).Scan(&ownerID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE id = ?",
		model.StatusCancelled, reservationID)
	return err
}
