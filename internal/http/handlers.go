package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/performance"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/service"
)

// maxImageBytes caps the nameplate photo accepted by /extract-specs.
const maxImageBytes = 10 << 20

// Register mounts the intake API. The metrics route is skipped when gatherer is nil.
func Register(app *fiber.App, svcs *service.Services, gatherer prometheus.Gatherer) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	g := app.Group("/")

	g.Post("facilities", func(c *fiber.Ctx) error {
		var req service.FacilityRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, badBody(err))
		}
		res, err := svcs.Facilities.Register(c.UserContext(), req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})
	g.Get("facilities", func(c *fiber.Ctx) error {
		items, err := svcs.Facilities.List(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Get("facilities/:id", func(c *fiber.Ctx) error {
		f, err := svcs.Facilities.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(f)
	})
	g.Get("facilities/:id/equipment", func(c *fiber.Ctx) error {
		items, err := svcs.Facilities.Equipment(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Get("facilities/:id/billing", func(c *fiber.Ctx) error {
		ledger, err := svcs.Facilities.Billing(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(ledger)
	})

	g.Post("equipment", func(c *fiber.Ctx) error {
		var req service.EquipmentRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, badBody(err))
		}
		res, err := svcs.Equipment.Register(c.UserContext(), req)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	g.Post("performance", func(c *fiber.Ctx) error {
		var in performance.Input
		if err := c.BodyParser(&in); err != nil {
			return fail(c, badBody(err))
		}
		return c.JSON(svcs.Equipment.Calculate(in))
	})

	g.Post("dispatch", func(c *fiber.Ctx) error {
		var req service.DispatchRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, badBody(err))
		}
		report, err := svcs.Equipment.Dispatch(c.UserContext(), req)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(report)
	})

	g.Post("extract-specs", func(c *fiber.Ctx) error {
		image, err := formImage(c, "file")
		if err != nil {
			return fail(c, err)
		}
		specs, err := svcs.Extractor.Extract(c.UserContext(), image)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "specs": specs})
	})
}

func formImage(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.NewValidationError("No file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", err.Error())
	}
	if len(data) > maxImageBytes {
		return nil, apperrors.NewValidationError("file too large")
	}
	return data, nil
}

func badBody(err error) error {
	return apperrors.NewValidationError("invalid request body", err.Error())
}

func fail(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	if appErr, ok := apperrors.As(err); ok {
		body["error"] = appErr.Message
		body["type"] = appErr.Type
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}
	return c.Status(apperrors.StatusCode(err)).JSON(body)
}
