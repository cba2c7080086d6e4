package ledger

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/transaction"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

var validate = validator.New()

// Handler exposes the wallet and payment endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a ledger handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// statusFor maps domain error kinds onto HTTP statuses. Anything outside the
// taxonomy is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrInactiveWallet):
		return http.StatusUnprocessableEntity
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

type createWalletRequest struct {
	BusinessID     string          `json:"business_id" validate:"required"`
	CustomerName   string          `json:"customer_name" validate:"required"`
	CustomerPhone  string          `json:"customer_phone" validate:"required"`
	CustomerEmail  string          `json:"customer_email" validate:"omitempty,email"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func walletView(w wallet.Wallet) fiber.Map {
	return fiber.Map{
		"wallet_id":      w.ID,
		"business_id":    w.BusinessID,
		"customer_name":  w.CustomerName,
		"customer_phone": w.CustomerPhone,
		"balance":        w.Balance.StringFixed(2),
		"daily_limit":    w.DailyLimit.StringFixed(2),
		"monthly_limit":  w.MonthlyLimit.StringFixed(2),
		"ussd_code":      w.USSDCode,
		"status":         string(w.Status),
		"created_at":     w.CreatedAt.Format(time.RFC3339),
		"last_activity":  w.LastActivity.Format(time.RFC3339),
	}
}

// CreateWallet opens a wallet for a customer.
func (h *Handler) CreateWallet(c *fiber.Ctx) error {
	var req createWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.CreateWallet(c.UserContext(), CreateWalletInput{
		BusinessID:     req.BusinessID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return domainError(err)
	}

	body := walletView(res.Wallet)
	body["pin"] = res.Wallet.PIN
	if res.TransactionID != "" {
		body["opening_transaction_id"] = res.TransactionID
	}
	return c.Status(http.StatusCreated).JSON(body)
}

// Balance returns a wallet's current state.
func (h *Handler) Balance(c *fiber.Ctx) error {
	w, err := h.engine.Balance(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(walletView(w))
}

// History returns a wallet's movements, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	entries, err := h.engine.History(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return domainError(err)
	}

	out := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryView(entry))
	}
	return c.JSON(fiber.Map{"transactions": out, "count": len(out)})
}

func entryView(entry transaction.Entry) fiber.Map {
	view := fiber.Map{
		"transaction_id": entry.ID,
		"reference":      entry.Reference,
		"direction":      string(entry.Direction),
		"amount":         entry.Amount.StringFixed(2),
		"fee":            entry.Fee.StringFixed(2),
		"channel":        string(entry.Channel),
		"description":    entry.Description,
		"status":         string(entry.Status),
		"created_at":     entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.FromWallet != "" {
		view["from_wallet"] = entry.FromWallet
	}
	if entry.ToWallet != "" {
		view["to_wallet"] = entry.ToWallet
	}
	if entry.ExternalReference != "" {
		view["external_reference"] = entry.ExternalReference
	}
	return view
}

type acceptPaymentRequest struct {
	WalletID          string          `json:"wallet_id" validate:"required"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Channel           string          `json:"channel" validate:"required"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"external_reference"`
}

// AcceptPayment credits a wallet with an inbound payment from an external
// channel.
func (h *Handler) AcceptPayment(c *fiber.Ctx) error {
	var req acceptPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	channel, err := domain.ParseChannel(req.Channel)
	if err != nil {
		return domainError(err)
	}

	res, err := h.engine.AcceptPayment(c.UserContext(), AcceptPaymentInput{
		WalletID:          req.WalletID,
		Amount:            req.Amount,
		Channel:           channel,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	})
	if err != nil {
		return domainError(err)
	}
	return c.Status(http.StatusCreated).JSON(paymentView(res))
}

type sendPaymentRequest struct {
	FromWallet  string          `json:"from_wallet" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Channel     string          `json:"channel" validate:"required"`
	Recipient   string          `json:"recipient" validate:"required"`
	Description string          `json:"description"`
}

// SendPayment debits a wallet towards a peer wallet, a merchant or an
// external recipient.
func (h *Handler) SendPayment(c *fiber.Ctx) error {
	var req sendPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	channel, err := domain.ParseChannel(req.Channel)
	if err != nil {
		return domainError(err)
	}

	res, err := h.engine.SendPayment(c.UserContext(), SendPaymentInput{
		FromWallet:  req.FromWallet,
		Amount:      req.Amount,
		Channel:     channel,
		Recipient:   req.Recipient,
		Description: req.Description,
	})
	if err != nil {
		return domainError(err)
	}

	body := paymentView(res)
	body["fee_saved"] = res.FeeSaved.StringFixed(2)
	return c.Status(http.StatusCreated).JSON(body)
}

type topupRequest struct {
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	Description      string          `json:"description"`
	ActingBusinessID string          `json:"acting_business_id" validate:"required"`
}

// Topup credits a wallet with merchant money.
func (h *Handler) Topup(c *fiber.Ctx) error {
	var req topupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.engine.MerchantTopup(c.UserContext(), TopupInput{
		WalletID:         c.Params("id"),
		Amount:           req.Amount,
		Description:      req.Description,
		ActingBusinessID: req.ActingBusinessID,
	})
	if err != nil {
		return domainError(err)
	}
	return c.Status(http.StatusCreated).JSON(paymentView(res))
}

func paymentView(res PaymentResult) fiber.Map {
	return fiber.Map{
		"transaction_id": res.TransactionID,
		"reference":      res.Reference,
		"new_balance":    res.NewBalance.StringFixed(2),
		"fee":            res.Fee.StringFixed(2),
		"status":         string(domain.TransactionCompleted),
		"completed_at":   res.CompletedAt.Format(time.RFC3339),
	}
}

type statusRequest struct {
	ActingBusinessID string `json:"acting_business_id" validate:"required"`
}

// Activate returns a deactivated wallet to service.
func (h *Handler) Activate(c *fiber.Ctx) error {
	return h.setStatus(c, h.engine.Activate)
}

// Deactivate suspends a wallet.
func (h *Handler) Deactivate(c *fiber.Ctx) error {
	return h.setStatus(c, h.engine.Deactivate)
}

func (h *Handler) setStatus(c *fiber.Ctx, op func(ctx context.Context, walletID, actingBusinessID string) error) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := op(c.UserContext(), c.Params("id"), req.ActingBusinessID); err != nil {
		return domainError(err)
	}
	w, err := h.engine.Balance(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(walletView(w))
}

// ListWallets returns every wallet owned by a business.
func (h *Handler) ListWallets(c *fiber.Ctx) error {
	wallets, err := h.engine.ListWallets(c.UserContext(), c.Params("id"))
	if err != nil {
		return domainError(err)
	}
	out := make([]fiber.Map, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, walletView(w))
	}
	return c.JSON(fiber.Map{"wallets": out, "count": len(out)})
}
