package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
)

// RegisterUpgradeRoutes wires the upgrade workflow endpoints.
func RegisterUpgradeRoutes(r fiber.Router, h *upgrade.Handler) {
	r.Post("/upgrades", h.Suggest)
	r.Post("/upgrades/:id/complete", h.Complete)
}
