package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/travel-planner/internal/model"
	"github.com/voyago/travel-planner/internal/repository"
)

type fakePlanStore struct {
	plans []model.TravelPlan
	err   error
}

func (f *fakePlanStore) List(ctx context.Context) ([]model.TravelPlan, error) {
	return f.plans, f.err
}

type fakeBookingStore struct {
	createErr error
	plan      *model.TravelPlan
	gotRes    *model.Reservation
	gotDays   []model.ItineraryDay
	calls     int
}

func (f *fakeBookingStore) Create(ctx context.Context, res *model.Reservation, days []model.ItineraryDay) (*model.TravelPlan, error) {
	f.calls++
	f.gotRes = res
	f.gotDays = days
	if f.createErr != nil {
		return nil, f.createErr
	}
	res.ID = 101
	return f.plan, nil
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))

	var envelope map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func TestValidateBookReq(t *testing.T) {
	valid := bookReq{UserID: 7, DestinationID: 3, TravelDate: "2025-06-01", Travelers: 2, TotalPrice: 2398}

	cases := []struct {
		name   string
		mutate func(*bookReq)
		wantOK bool
	}{
		{"valid", func(r *bookReq) {}, true},
		{"valid without itinerary slots", func(r *bookReq) { r.Itinerary = nil }, true},
		{"missing user", func(r *bookReq) { r.UserID = 0 }, false},
		{"missing destination", func(r *bookReq) { r.DestinationID = 0 }, false},
		{"missing date", func(r *bookReq) { r.TravelDate = "" }, false},
		{"malformed date", func(r *bookReq) { r.TravelDate = "01/06/2025" }, false},
		{"zero travelers", func(r *bookReq) { r.Travelers = 0 }, false},
		{"negative travelers", func(r *bookReq) { r.Travelers = -1 }, false},
		{"zero price", func(r *bookReq) { r.TotalPrice = 0 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			msg := validateBookReq(req)
			if tc.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestBuildItineraryDays(t *testing.T) {
	days := buildItineraryDays([][]string{
		{"Visit museum", "Lunch", "Show"},
		{"Hike"},
		{},
	})
	require.Len(t, days, 3)

	assert.Equal(t, 1, days[0].DayNumber)
	assert.Equal(t, "Visit museum", days[0].Morning)
	assert.Equal(t, "Lunch", days[0].Afternoon)
	assert.Equal(t, "Show", days[0].Evening)

	// missing slots default to empty strings
	assert.Equal(t, 2, days[1].DayNumber)
	assert.Equal(t, "Hike", days[1].Morning)
	assert.Equal(t, "", days[1].Afternoon)
	assert.Equal(t, "", days[1].Evening)

	assert.Equal(t, 3, days[2].DayNumber)
	assert.Equal(t, "", days[2].Morning)

	assert.Empty(t, buildItineraryDays(nil))
}

func TestBookSuccess(t *testing.T) {
	store := &fakeBookingStore{plan: &model.TravelPlan{ID: 3, Title: "Kyoto Escape", Location: "Japan", Duration: 1}}
	h := NewTripHandler(&fakePlanStore{}, store, "")

	body := `{"userId":7,"destinationId":3,"travelDate":"2025-06-01","travelers":2,"totalPrice":2398,
	          "itinerary":[["Visit museum","Lunch","Show"]]}`
	rec, env := doJSON(t, h.Book, http.MethodPost, "/v1/trips/book", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, env["success"])

	data := env["data"].(map[string]interface{})
	assert.Equal(t, float64(101), data["reservationId"])
	ref := data["bookingReference"].(string)
	assert.True(t, strings.HasPrefix(ref, "TP-"))
	assert.Len(t, ref, 11)

	// the store received a confirmed reservation with 1..N day rows
	require.NotNil(t, store.gotRes)
	assert.Equal(t, model.StatusConfirmed, store.gotRes.Status)
	assert.Equal(t, uint64(7), store.gotRes.UserID)
	assert.Equal(t, uint64(3), store.gotRes.TravelPlanID)
	assert.Equal(t, "2025-06-01", store.gotRes.TravelDate)
	assert.Equal(t, 2, store.gotRes.NumPeople)
	require.Len(t, store.gotDays, 1)
	assert.Equal(t, 1, store.gotDays[0].DayNumber)
	assert.Equal(t, "Visit museum", store.gotDays[0].Morning)
}

func TestBookIncompleteDataNeverReachesStore(t *testing.T) {
	store := &fakeBookingStore{}
	h := NewTripHandler(&fakePlanStore{}, store, "")

	body := `{"userId":7,"destinationId":3,"travelers":2,"totalPrice":2398}`
	rec, env := doJSON(t, h.Book, http.MethodPost, "/v1/trips/book", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, CodeInvalidRequest, env["code"])
	assert.Equal(t, "Incomplete data", env["message"])
	assert.Zero(t, store.calls, "validation failures must have no side effects")
}

func TestBookDestinationNotFound(t *testing.T) {
	store := &fakeBookingStore{createErr: repository.ErrPlanNotFound}
	h := NewTripHandler(&fakePlanStore{}, store, "")

	body := `{"userId":7,"destinationId":999,"travelDate":"2025-06-01","travelers":2,"totalPrice":2398}`
	rec, env := doJSON(t, h.Book, http.MethodPost, "/v1/trips/book", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, env["code"])
	assert.Equal(t, "Destination not found", env["message"])
}

func TestBookStoreErrorSurfacesCause(t *testing.T) {
	store := &fakeBookingStore{createErr: errors.New("deadlock found")}
	h := NewTripHandler(&fakePlanStore{}, store, "")

	body := `{"userId":7,"destinationId":3,"travelDate":"2025-06-01","travelers":2,"totalPrice":2398}`
	rec, env := doJSON(t, h.Book, http.MethodPost, "/v1/trips/book", body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, env["code"])
	assert.Contains(t, env["message"], "deadlock found")
}

func TestDestinations(t *testing.T) {
	plans := &fakePlanStore{plans: []model.TravelPlan{
		{ID: 1, Title: "Kyoto Escape", Location: "Japan", Description: "Temples", ImageURL: "kyoto.jpg", Price: 1199, Duration: 5},
	}}
	h := NewTripHandler(plans, &fakeBookingStore{}, "")

	rec, env := doJSON(t, h.Destinations, http.MethodGet, "/v1/trips/destinations", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env["success"])
	data := env["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Kyoto Escape", first["name"])
	assert.Equal(t, "kyoto.jpg", first["image"])
	assert.Equal(t, float64(5), first["duration"])
}

func TestDestinationsEmptyCatalogIsSuccess(t *testing.T) {
	h := NewTripHandler(&fakePlanStore{}, &fakeBookingStore{}, "")

	rec, env := doJSON(t, h.Destinations, http.MethodGet, "/v1/trips/destinations", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env["success"])
	assert.Empty(t, env["data"])
}
