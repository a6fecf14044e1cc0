package catalog

import (
	"context"

	"backend-globetrotter/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// List returns ideas filtered by city and/or type, best rated first.
// Empty filters match everything.
func (s *Service) List(ctx context.Context, city, ideaType string) ([]Idea, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, type, city, country, price, price_category, image_url, rating
		FROM activity_ideas
		WHERE ($1 = '' OR city = $1) AND ($2 = '' OR type = $2)
		ORDER BY rating DESC
	`, city, ideaType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ideas := []Idea{}
	for rows.Next() {
		var idea Idea
		if err := rows.Scan(&idea.ID, &idea.Name, &idea.Description, &idea.Type, &idea.City,
			&idea.Country, &idea.Price, &idea.PriceCategory, &idea.ImageURL, &idea.Rating); err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

func (s *Service) Cities(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT city FROM activity_ideas ORDER BY city ASC`)
}

func (s *Service) Types(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT type FROM activity_ideas ORDER BY type ASC`)
}

func (s *Service) distinct(ctx context.Context, sql string) ([]string, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
