package svr

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/middlewares"
)

// Root serves the public lottery queries.
type Root struct {
	fiber.Router
}

type Meta struct {
	fiber.Router
}

// Admin requires the configured admin key.
type Admin struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App, conf *appconfig.Config) (*Root, *Meta, *Admin) {
	meta := app.Group("/api/_")
	admin := app.Group("/api/_/admin", middlewares.AdminKey(conf.AdminKey))

	return &Root{Router: app}, &Meta{Router: meta}, &Admin{Router: admin}
}
