package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/ledger"
)

// RegisterBusinessRoutes wires merchant registration, login and profile
// endpoints. Login is rate limited per email.
func RegisterBusinessRoutes(r fiber.Router, h *business.Handler, lh *ledger.Handler, loginLimiter fiber.Handler) {
	r.Post("/businesses/register", h.Register)
	r.Post("/businesses/login", loginLimiter, h.Login)
	r.Get("/businesses/:id", h.Get)
	r.Get("/businesses/:id/wallets", lh.ListWallets)
}
