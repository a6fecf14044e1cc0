package trip

import (
	"context"
	"errors"

	"backend-globetrotter/internal/db"

	"github.com/jackc/pgx/v5"
)

// User-facing result messages. Absent and foreign-owned targets collapse
// into the same error so trip existence is never leaked to non-owners.
var (
	ErrUnauthorized  = errors.New("Unauthorized")
	ErrUserNotFound  = errors.New("User not found!")
	ErrTripNotFound  = errors.New("Trip not found or unauthorized!")
	ErrStopNotFound  = errors.New("Stop not found or unauthorized!")
	ErrInvalidFields = errors.New("Invalid fields!")
)

// Guard walks the ownership chain Activity -> Stop -> Trip -> User. Every
// mutation re-derives the chain from storage on each call; nothing is
// cached or trusted from client input.
type Guard struct {
	db db.Querier
}

func NewGuard(db db.Querier) *Guard {
	return &Guard{db: db}
}

// ResolveActor maps a session email to the user id. An empty email means
// no session; a missing row means the session references a user that no
// longer exists.
func (g *Guard) ResolveActor(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrUnauthorized
	}
	var id string
	err := g.db.QueryRow(ctx, `SELECT id FROM users WHERE email=$1`, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (g *Guard) AuthorizeTrip(ctx context.Context, email, tripID string) (Trip, error) {
	actorID, err := g.ResolveActor(ctx, email)
	if err != nil {
		return Trip{}, err
	}

	row := g.db.QueryRow(ctx, `
		SELECT id, user_id, name, COALESCE(description,''), start_date, end_date,
		       COALESCE(cover_image,''), is_public, created_at
		FROM trips WHERE id=$1
	`, tripID)
	var t Trip
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.StartDate, &t.EndDate, &t.CoverImage, &t.IsPublic, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrTripNotFound
		}
		return Trip{}, err
	}
	if t.UserID != actorID {
		return Trip{}, ErrTripNotFound
	}
	return t, nil
}

func (g *Guard) AuthorizeStop(ctx context.Context, email, stopID string) (Stop, error) {
	actorID, err := g.ResolveActor(ctx, email)
	if err != nil {
		return Stop{}, err
	}

	row := g.db.QueryRow(ctx, `
		SELECT s.id, s.trip_id, s.city, COALESCE(s.country,''), s.arrival_date,
		       s.departure_date, s.order_index, t.user_id
		FROM stops s
		JOIN trips t ON t.id = s.trip_id
		WHERE s.id=$1
	`, stopID)
	var st Stop
	var ownerID string
	if err := row.Scan(&st.ID, &st.TripID, &st.City, &st.Country, &st.ArrivalDate, &st.DepartureDate, &st.OrderIndex, &ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stop{}, ErrStopNotFound
		}
		return Stop{}, err
	}
	if ownerID != actorID {
		return Stop{}, ErrStopNotFound
	}
	return st, nil
}
