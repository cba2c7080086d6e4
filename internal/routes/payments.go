package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/ledger"
)

// RegisterPaymentRoutes wires the money movement endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *ledger.Handler) {
	r.Post("/payments/accept", h.AcceptPayment)
	r.Post("/payments/send", h.SendPayment)
}
