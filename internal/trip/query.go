package trip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// GetTripByID returns the owner-scoped trip detail, or nil when there is
// no resolvable actor or the trip is absent or foreign-owned. Callers
// treat nil as a redirect signal.
func (s *Service) GetTripByID(ctx context.Context, actorEmail, tripID string) (*TripDetail, error) {
	actorID, err := s.resolveOrNil(ctx, actorEmail)
	if err != nil || actorID == "" {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, COALESCE(description,''), start_date, end_date,
		       COALESCE(cover_image,''), is_public, created_at
		FROM trips WHERE id=$1 AND user_id=$2
	`, tripID, actorID)
	var detail TripDetail
	err = row.Scan(&detail.ID, &detail.UserID, &detail.Name, &detail.Description,
		&detail.StartDate, &detail.EndDate, &detail.CoverImage, &detail.IsPublic, &detail.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	detail.Stops, err = s.stopsWithActivities(ctx, tripID)
	if err != nil {
		return nil, err
	}

	detail.Budget, err = s.budgetSettings(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetTrips lists the actor's trips with stop counts, ordered by start
// date. A nil slice means the actor could not be resolved; an empty
// slice means no trips yet.
func (s *Service) GetTrips(ctx context.Context, actorEmail string) ([]TripSummary, error) {
	actorID, err := s.resolveOrNil(ctx, actorEmail)
	if err != nil || actorID == "" {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.user_id, t.name, COALESCE(t.description,''), t.start_date, t.end_date,
		       COALESCE(t.cover_image,''), t.is_public, t.created_at, COUNT(s.id)
		FROM trips t
		LEFT JOIN stops s ON s.trip_id = t.id
		WHERE t.user_id=$1
		GROUP BY t.id
		ORDER BY t.start_date ASC
	`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []TripSummary{}
	for rows.Next() {
		var ts TripSummary
		if err := rows.Scan(&ts.ID, &ts.UserID, &ts.Name, &ts.Description, &ts.StartDate,
			&ts.EndDate, &ts.CoverImage, &ts.IsPublic, &ts.CreatedAt, &ts.StopCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ts)
	}
	return summaries, nil
}

// GetTripsForSelect returns id/name pairs for pickers, newest trips
// first. Unresolvable actors get an empty list, not nil.
func (s *Service) GetTripsForSelect(ctx context.Context, actorEmail string) ([]TripOption, error) {
	options := []TripOption{}

	actorID, err := s.resolveOrNil(ctx, actorEmail)
	if err != nil {
		return nil, err
	}
	if actorID == "" {
		return options, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name FROM trips WHERE user_id=$1 ORDER BY start_date DESC
	`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt TripOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// GetPublicTrip returns the share projection only for public trips. A
// private trip and a nonexistent id are indistinguishable: both nil.
func (s *Service) GetPublicTrip(ctx context.Context, tripID string) (*PublicTrip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT t.id, t.user_id, t.name, COALESCE(t.description,''), t.start_date, t.end_date,
		       COALESCE(t.cover_image,''), t.is_public, t.created_at, u.name
		FROM trips t
		JOIN users u ON u.id = t.user_id
		WHERE t.id=$1
	`, tripID)
	var pt PublicTrip
	err := row.Scan(&pt.ID, &pt.UserID, &pt.Name, &pt.Description, &pt.StartDate,
		&pt.EndDate, &pt.CoverImage, &pt.IsPublic, &pt.CreatedAt, &pt.PlannerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !pt.IsPublic {
		return nil, nil
	}

	pt.Stops, err = s.stopsWithActivities(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *Service) resolveOrNil(ctx context.Context, actorEmail string) (string, error) {
	actorID, err := s.guard.ResolveActor(ctx, actorEmail)
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return actorID, nil
}

func (s *Service) stopsWithActivities(ctx context.Context, tripID string) ([]Stop, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, city, COALESCE(country,''), arrival_date, departure_date, order_index
		FROM stops WHERE trip_id=$1
		ORDER BY order_index ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []Stop{}
	index := map[string]int{}
	for rows.Next() {
		var st Stop
		if err := rows.Scan(&st.ID, &st.TripID, &st.City, &st.Country, &st.ArrivalDate, &st.DepartureDate, &st.OrderIndex); err != nil {
			return nil, err
		}
		st.Activities = []Activity{}
		index[st.ID] = len(stops)
		stops = append(stops, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	actRows, err := s.db.Query(ctx, `
		SELECT a.id, a.stop_id, a.name, a.type, a.cost, a.date, COALESCE(a.time,''), a.status
		FROM activities a
		JOIN stops s ON s.id = a.stop_id
		WHERE s.trip_id=$1
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer actRows.Close()

	for actRows.Next() {
		var a Activity
		if err := actRows.Scan(&a.ID, &a.StopID, &a.Name, &a.Type, &a.Cost, &a.Date, &a.Time, &a.Status); err != nil {
			return nil, err
		}
		if i, ok := index[a.StopID]; ok {
			stops[i].Activities = append(stops[i].Activities, a)
		}
	}
	return stops, actRows.Err()
}

func (s *Service) budgetSettings(ctx context.Context, tripID string) (*BudgetSettings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT trip_id, total_budget, currency FROM budget_settings WHERE trip_id=$1
	`, tripID)
	var b BudgetSettings
	err := row.Scan(&b.TripID, &b.TotalBudget, &b.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
