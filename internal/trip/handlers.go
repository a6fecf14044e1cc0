package trip

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

type dateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Name        string    `json:"name"`
			Description string    `json:"description"`
			CoverImage  string    `json:"cover_image"`
			Dates       dateRange `json:"dates"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, ErrInvalidFields)
		}
		err := svc.CreateTrip(c.Context(), actorEmail(c), CreateTripInput{
			Name:        req.Name,
			Description: req.Description,
			CoverImage:  req.CoverImage,
			From:        req.Dates.From,
			To:          req.Dates.To,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": "Trip created!"})
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		trips, err := svc.GetTrips(c.Context(), actorEmail(c))
		if err != nil {
			return fail(c, err)
		}
		if trips == nil {
			return fail(c, ErrUnauthorized)
		}
		return c.JSON(trips)
	})

	// registered before /:id so "select" is not captured as a trip id
	r.Get("/select", authMiddleware, func(c *fiber.Ctx) error {
		options, err := svc.GetTripsForSelect(c.Context(), actorEmail(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(options)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		detail, err := svc.GetTripByID(c.Context(), actorEmail(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if detail == nil {
			return fail(c, ErrTripNotFound)
		}
		return c.JSON(detail)
	})

	r.Post("/:id/stops", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			City    string    `json:"city"`
			Country string    `json:"country"`
			Dates   dateRange `json:"dates"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, ErrInvalidFields)
		}
		err := svc.AddStop(c.Context(), actorEmail(c), AddStopInput{
			TripID:  c.Params("id"),
			City:    req.City,
			Country: req.Country,
			From:    req.Dates.From,
			To:      req.Dates.To,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": "Stop added!"})
	})

	r.Post("/stops/:stopId/activities", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Name string    `json:"name"`
			Type string    `json:"type"`
			Cost float64   `json:"cost"`
			Date time.Time `json:"date"`
			Time string    `json:"time"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, ErrInvalidFields)
		}
		err := svc.AddActivity(c.Context(), actorEmail(c), AddActivityInput{
			StopID: c.Params("stopId"),
			Name:   req.Name,
			Type:   req.Type,
			Cost:   req.Cost,
			Date:   req.Date,
			Time:   req.Time,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": "Activity added!"})
	})

	r.Put("/:id/budget", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, ErrInvalidFields)
		}
		if err := svc.UpdateBudget(c.Context(), actorEmail(c), c.Params("id"), req.Amount, req.Currency); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": "Budget updated!"})
	})

	r.Get("/:id/budget", authMiddleware, func(c *fiber.Ctx) error {
		detail, err := svc.GetTripByID(c.Context(), actorEmail(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if detail == nil {
			return fail(c, ErrTripNotFound)
		}
		return c.JSON(Summarize(*detail))
	})

	r.Put("/:id/visibility", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			IsPublic bool `json:"is_public"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, ErrInvalidFields)
		}
		if err := svc.ToggleVisibility(c.Context(), actorEmail(c), c.Params("id"), req.IsPublic); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": "Visibility updated!"})
	})
}

// RegisterShareRoutes exposes the unauthenticated public projection.
func RegisterShareRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id", func(c *fiber.Ctx) error {
		pub, err := svc.GetPublicTrip(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		if pub == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This trip is private or does not exist."})
		}
		return c.JSON(pub)
	})
}

func actorEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

// userSafe lists the errors whose text may reach the client. Anything
// else is an infrastructure failure and surfaces as a generic message.
var userSafe = []error{
	ErrInvalidFields, ErrUnauthorized, ErrUserNotFound, ErrTripNotFound,
	ErrStopNotFound, ErrCreateTripFailed, ErrAddStopFailed,
	ErrAddActivityFailed, ErrUpdateBudgetFailed, ErrUpdateSettingsFailed,
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": userMessage(err)})
}

func userMessage(err error) string {
	for _, safe := range userSafe {
		if errors.Is(err, safe) {
			return safe.Error()
		}
	}
	return "Something went wrong!"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFields):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrTripNotFound), errors.Is(err, ErrStopNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
