package catalog

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/activities", func(c *fiber.Ctx) error {
		ideas, err := svc.List(c.Context(), c.Query("city"), c.Query("type"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong!")
		}
		return c.JSON(ideas)
	})

	r.Get("/cities", func(c *fiber.Ctx) error {
		cities, err := svc.Cities(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong!")
		}
		return c.JSON(cities)
	})

	r.Get("/types", func(c *fiber.Ctx) error {
		types, err := svc.Types(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Something went wrong!")
		}
		return c.JSON(types)
	})
}
