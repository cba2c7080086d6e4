package upgrade

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

var validate = validator.New()

// Handler exposes the upgrade workflow endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an upgrade handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func domainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.NewError(http.StatusForbidden, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}
}

func suggestionView(s Suggestion) fiber.Map {
	return fiber.Map{
		"suggestion_id": s.ID,
		"wallet_id":     s.WalletID,
		"business_id":   s.BusinessID,
		"reason":        s.Reason,
		"documents":     s.Documents,
		"status":        s.Status,
		"created_at":    s.CreatedAt.Format(time.RFC3339),
		"updated_at":    s.UpdatedAt.Format(time.RFC3339),
	}
}

type suggestRequest struct {
	WalletID   string   `json:"wallet_id" validate:"required"`
	BusinessID string   `json:"business_id" validate:"required"`
	Reason     string   `json:"reason"`
	Documents  []string `json:"documents"`
}

// Suggest records a merchant's upgrade recommendation for a wallet.
func (h *Handler) Suggest(c *fiber.Ctx) error {
	var req suggestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	suggestion, err := h.service.Suggest(c.UserContext(), SuggestInput{
		WalletID:   req.WalletID,
		BusinessID: req.BusinessID,
		Reason:     req.Reason,
		Documents:  req.Documents,
	})
	if err != nil {
		return domainError(err)
	}
	return c.Status(http.StatusCreated).JSON(suggestionView(suggestion))
}

// Complete accepts a pending suggestion and upgrades the wallet.
func (h *Handler) Complete(c *fiber.Ctx) error {
	suggestion, err := h.service.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(suggestionView(suggestion))
}

// ListByWallet returns a wallet's upgrade suggestions, newest first.
func (h *Handler) ListByWallet(c *fiber.Ctx) error {
	suggestions, err := h.service.ListByWallet(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	out := make([]fiber.Map, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestionView(s))
	}
	return c.JSON(fiber.Map{"suggestions": out, "count": len(out)})
}
