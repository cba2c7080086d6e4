package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/ledger"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
)

// RegisterWalletRoutes wires wallet lifecycle and query endpoints.
func RegisterWalletRoutes(r fiber.Router, h *ledger.Handler, uh *upgrade.Handler) {
	r.Post("/wallets", h.CreateWallet)
	r.Get("/wallets/:id", h.Balance)
	r.Get("/wallets/:id/transactions", h.History)
	r.Get("/wallets/:id/upgrades", uh.ListByWallet)
	r.Post("/wallets/:id/topup", h.Topup)
	r.Post("/wallets/:id/activate", h.Activate)
	r.Post("/wallets/:id/deactivate", h.Deactivate)
}
