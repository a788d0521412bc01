package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/voyago/travel-planner/internal/model"
)

// PlanRepo encapsulates all database queries related to travel plans.
// Plans are the bookable products; the API only ever reads them, so
// there are no create or update methods here. Seeding happens through
// migrations.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo constructs a PlanRepo with the provided DB handle.
func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

// List returns every travel plan. The catalog is small and browsed as a
// whole by the client, so there is no pagination; the response is cached
// at the HTTP layer instead.
func (r *PlanRepo) List(ctx context.Context) ([]model.TravelPlan, error) {
	const q = `SELECT id, title, location, description, image_url, price, duration, created_at
	           FROM travel_plans
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]model.TravelPlan, 0)
	for rows.Next() {
		var p model.TravelPlan
		if err := rows.Scan(&p.ID, &p.Title, &p.Location, &p.Description,
			&p.ImageURL, &p.Price, &p.Duration, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetByID fetches a single plan. It returns ErrPlanNotFound when no row
// exists so callers don't have to compare against sql.ErrNoRows.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (*model.TravelPlan, error) {
	const q = `SELECT id, title, location, description, image_url, price, duration, created_at
	           FROM travel_plans WHERE id = ?`
	var p model.TravelPlan
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Location,
		&p.Description, &p.ImageURL, &p.Price, &p.Duration, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

// getByIDTx is the transaction-scoped lookup used by the booking flow so
// the existence check and the inserts observe the same snapshot.
func getPlanByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.TravelPlan, error) {
	const q = `SELECT id, title, location, description, image_url, price, duration, created_at
	           FROM travel_plans WHERE id = ?`
	var p model.TravelPlan
	err := tx.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Location,
		&p.Description, &p.ImageURL, &p.Price, &p.Duration, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}
