package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestCatalogHandlers(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, description, type, city`).
		WithArgs("Tokyo", "").
		WillReturnRows(pgxmock.NewRows(ideaCols).
			AddRow("idea-5", "Tokyo Skytree", "Panoramic views", "sightseeing", "Tokyo", "Japan", 25.0, "$$", "https://img.example/5", 4.8))
	mock.ExpectQuery(`SELECT DISTINCT city`).
		WillReturnRows(pgxmock.NewRows([]string{"city"}).AddRow("Tokyo"))

	app := fiber.New()
	RegisterRoutes(app.Group("/catalog"), NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/catalog/activities?city=Tokyo", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("activities status: %v", err)
	}

	var ideas []Idea
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &ideas); err != nil || len(ideas) != 1 {
		t.Fatalf("decode ideas: %v %s", err, raw)
	}

	req = httptest.NewRequest(http.MethodGet, "/catalog/cities", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("cities status: %v", err)
	}
}
