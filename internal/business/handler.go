package business

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

var validate = validator.New()

// Handler exposes merchant registration and profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a business handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func domainError(err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return fiber.NewError(status, "internal error")
	}
	return fiber.NewError(status, err.Error())
}

func businessView(b Business) fiber.Map {
	return fiber.Map{
		"business_id":        b.ID,
		"name":               b.Name,
		"email":              b.Email,
		"bank_account":       b.BankAccount,
		"settlement_balance": b.SettlementBalance.StringFixed(2),
		"created_at":         b.CreatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register enrolls a merchant.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	b, err := h.service.Register(c.UserContext(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return domainError(err)
	}
	return c.Status(http.StatusCreated).JSON(businessView(b))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies a merchant credential and returns the profile.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	b, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(businessView(b))
}

// Get returns a merchant profile including the settlement balance.
func (h *Handler) Get(c *fiber.Ctx) error {
	b, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(businessView(b))
}
