package trip

import (
	"context"
	"errors"
	"time"

	"backend-globetrotter/internal/db"

	"github.com/google/uuid"
)

// Generic write-failure messages. Storage errors never surface to the
// client beyond these.
var (
	ErrCreateTripFailed     = errors.New("Failed to create trip.")
	ErrAddStopFailed        = errors.New("Failed to add stop.")
	ErrAddActivityFailed    = errors.New("Failed to add activity.")
	ErrUpdateBudgetFailed   = errors.New("Failed to update budget.")
	ErrUpdateSettingsFailed = errors.New("Failed to update settings.")
)

// Invalidator receives a named-view event after every successful write.
// Satisfied by *view.Hub.
type Invalidator interface {
	Invalidate(ctx context.Context, viewName string)
}

type Service struct {
	db    db.Querier
	guard *Guard
	views Invalidator
}

func NewService(db db.Querier, views Invalidator) *Service {
	return &Service{db: db, guard: NewGuard(db), views: views}
}

func (s *Service) Guard() *Guard {
	return s.guard
}

func (s *Service) invalidate(ctx context.Context, viewName string) {
	if s.views != nil {
		s.views.Invalidate(ctx, viewName)
	}
}

type CreateTripInput struct {
	Name        string
	Description string
	CoverImage  string
	From        time.Time
	To          time.Time
}

func (s *Service) CreateTrip(ctx context.Context, actorEmail string, in CreateTripInput) error {
	if actorEmail == "" {
		return ErrUnauthorized
	}
	if in.Name == "" || in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return ErrInvalidFields
	}

	actorID, err := s.guard.ResolveActor(ctx, actorEmail)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO trips (id, user_id, name, description, start_date, end_date, cover_image)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, uuid.NewString(), actorID, in.Name, in.Description, in.From, in.To, in.CoverImage)
	if err != nil {
		return ErrCreateTripFailed
	}

	s.invalidate(ctx, "dashboard")
	return nil
}

type AddStopInput struct {
	TripID  string
	City    string
	Country string
	From    time.Time
	To      time.Time
}

// AddStop appends a stop at the next order index. The index read and the
// insert run in one transaction holding a lock on the trip row, so two
// concurrent calls cannot observe the same maximum. A unique constraint
// on (trip_id, order_index) backstops the invariant.
func (s *Service) AddStop(ctx context.Context, actorEmail string, in AddStopInput) error {
	if in.City == "" || in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return ErrInvalidFields
	}
	if _, err := s.guard.AuthorizeTrip(ctx, actorEmail, in.TripID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ErrAddStopFailed
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT id FROM trips WHERE id=$1 FOR UPDATE`, in.TripID); err != nil {
		return ErrAddStopFailed
	}

	var next int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(order_index), -1) + 1 FROM stops WHERE trip_id=$1
	`, in.TripID).Scan(&next)
	if err != nil {
		return ErrAddStopFailed
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stops (id, trip_id, city, country, arrival_date, departure_date, order_index)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, uuid.NewString(), in.TripID, in.City, in.Country, in.From, in.To, next)
	if err != nil {
		return ErrAddStopFailed
	}

	if err := tx.Commit(ctx); err != nil {
		return ErrAddStopFailed
	}

	s.invalidate(ctx, "trip:"+in.TripID)
	return nil
}

type AddActivityInput struct {
	StopID string
	Name   string
	Type   string
	Cost   float64
	Date   time.Time
	Time   string
}

func (s *Service) AddActivity(ctx context.Context, actorEmail string, in AddActivityInput) error {
	if in.Name == "" || !ValidActivityType(in.Type) || in.Cost < 0 || in.Date.IsZero() {
		return ErrInvalidFields
	}

	stop, err := s.guard.AuthorizeStop(ctx, actorEmail, in.StopID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO activities (id, stop_id, name, type, cost, date, time, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'planned')
	`, uuid.NewString(), in.StopID, in.Name, in.Type, in.Cost, in.Date, in.Time)
	if err != nil {
		return ErrAddActivityFailed
	}

	s.invalidate(ctx, "trip:"+stop.TripID)
	return nil
}

// UpdateBudget is an idempotent set: the single budget_settings row per
// trip is created on first call and overwritten after.
func (s *Service) UpdateBudget(ctx context.Context, actorEmail, tripID string, amount float64, currency string) error {
	if amount < 0 {
		return ErrInvalidFields
	}
	if currency == "" {
		currency = "USD"
	}
	if _, err := s.guard.AuthorizeTrip(ctx, actorEmail, tripID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO budget_settings (trip_id, total_budget, currency)
		VALUES ($1,$2,$3)
		ON CONFLICT (trip_id) DO UPDATE
		SET total_budget=EXCLUDED.total_budget, currency=EXCLUDED.currency
	`, tripID, amount, currency)
	if err != nil {
		return ErrUpdateBudgetFailed
	}

	s.invalidate(ctx, "trip:"+tripID+":budget")
	return nil
}

func (s *Service) ToggleVisibility(ctx context.Context, actorEmail, tripID string, isPublic bool) error {
	if _, err := s.guard.AuthorizeTrip(ctx, actorEmail, tripID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `UPDATE trips SET is_public=$2 WHERE id=$1`, tripID, isPublic)
	if err != nil {
		return ErrUpdateSettingsFailed
	}

	s.invalidate(ctx, "trip:"+tripID+":settings")
	return nil
}
