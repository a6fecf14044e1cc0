package trip

import "time"

type Trip struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CoverImage  string    `json:"cover_image,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

type Stop struct {
	ID            string     `json:"id"`
	TripID        string     `json:"trip_id"`
	City          string     `json:"city"`
	Country       string     `json:"country,omitempty"`
	ArrivalDate   time.Time  `json:"arrival_date"`
	DepartureDate time.Time  `json:"departure_date"`
	OrderIndex    int        `json:"order_index"`
	Activities    []Activity `json:"activities"`
}

type Activity struct {
	ID     string    `json:"id"`
	StopID string    `json:"stop_id"`
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Cost   float64   `json:"cost"`
	Date   time.Time `json:"date"`
	Time   string    `json:"time,omitempty"`
	Status string    `json:"status"`
}

type BudgetSettings struct {
	TripID      string  `json:"trip_id"`
	TotalBudget float64 `json:"total_budget"`
	Currency    string  `json:"currency"`
}

// TripDetail is the owner-scoped read of one trip: stops ordered by
// order_index, activities attached per stop, budget when set.
type TripDetail struct {
	Trip
	Stops  []Stop          `json:"stops"`
	Budget *BudgetSettings `json:"budget_settings,omitempty"`
}

type TripSummary struct {
	Trip
	StopCount int `json:"stop_count"`
}

type TripOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublicTrip is the read-only share projection, gated on is_public.
type PublicTrip struct {
	Trip
	Stops       []Stop `json:"stops"`
	PlannerName string `json:"planner_name"`
}

var activityTypes = map[string]struct{}{
	"sightseeing":   {},
	"food":          {},
	"adventure":     {},
	"relax":         {},
	"transport":     {},
	"accommodation": {},
	"other":         {},
}

func ValidActivityType(t string) bool {
	_, ok := activityTypes[t]
	return ok
}
