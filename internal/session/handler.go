package session

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ubique-pay/ubique_pay/internal/transfer"
	"github.com/ubique-pay/ubique_pay/internal/verification"
)

// Handler exposes the session lifecycle and flow events over HTTP. Every event
// endpoint answers with the post-event snapshot; a blocked transition is a
// silent no-op reported as applied=false with unchanged state.
type Handler struct {
	manager *Manager
}

// NewHandler builds a session HTTP handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

type createResponse struct {
	SessionID string   `json:"session_id"`
	Snapshot  Snapshot `json:"snapshot"`
}

type eventResponse struct {
	Applied  bool     `json:"applied"`
	Snapshot Snapshot `json:"snapshot"`
}

// Create provisions a new session.
func (h *Handler) Create(c *fiber.Ctx) error {
	s := h.manager.Create()
	return c.Status(http.StatusCreated).JSON(createResponse{
		SessionID: s.ID(),
		Snapshot:  s.Snapshot(),
	})
}

// Get returns the session snapshot.
func (h *Handler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(s.Snapshot())
}

// Delete tears a session down.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if !h.manager.Delete(c.Params("sessionId")) {
		return fiber.NewError(http.StatusNotFound, "session not found")
	}
	return c.SendStatus(http.StatusNoContent)
}

// Transactions returns the session's ledger, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	records, err := s.Transactions(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]fiber.Map, 0, len(records))
	for _, rec := range records {
		out = append(out, fiber.Map{
			"id":          rec.ID,
			"amount":      rec.Amount,
			"recipient":   rec.Recipient,
			"date":        rec.Date,
			"card_suffix": rec.CardSuffix,
		})
	}
	return c.JSON(fiber.Map{"transactions": out})
}

// OnboardingStart handles the start event on the welcome and account-created
// screens.
func (h *Handler) OnboardingStart(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.OnboardingStart() })
}

// OnboardingBack handles back navigation during onboarding.
func (h *Handler) OnboardingBack(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.OnboardingBack() })
}

// SendCode handles the send-code event on the phone screen.
func (h *Handler) SendCode(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.SendCode() })
}

// CreateAccount handles the create-account event on the OTP screen.
func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.CreateAccount() })
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// SetPhone updates the phone input.
func (h *Handler) SetPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool {
		s.SetPhone(req.Phone)
		return true
	})
}

type otpRequest struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// SetOtpDigit writes one OTP slot.
func (h *Handler) SetOtpDigit(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool { return s.SetOtpDigit(req.Index, req.Value) })
}

// VerificationStart begins the verification flow.
func (h *Handler) VerificationStart(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.StartVerification(c.UserContext()) })
}

type uploadRequest struct {
	Slot string `json:"slot"`
}

// VerificationUpload submits a capture for a slot.
func (h *Handler) VerificationUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool {
		return s.VerificationUpload(c.UserContext(), verification.Slot(req.Slot))
	})
}

// VerificationNext advances past a completed verification step.
func (h *Handler) VerificationNext(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.VerificationNext() })
}

// VerificationBack navigates the verification flow back.
func (h *Handler) VerificationBack(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.VerificationBack() })
}

// VerificationSubmit hands the uploads to review.
func (h *Handler) VerificationSubmit(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.VerificationSubmit(c.UserContext()) })
}

// VerificationReturnHome leaves the completion screen and marks the session
// verified.
func (h *Handler) VerificationReturnHome(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.VerificationReturnHome() })
}

// TransferOpen opens the send-money modal.
func (h *Handler) TransferOpen(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.TransferOpen() })
}

// TransferClose cancels the transfer from the recipient screen.
func (h *Handler) TransferClose(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.TransferClose() })
}

type recipientRequest struct {
	Recipient string `json:"recipient"`
}

// SetTransferRecipient updates the recipient input.
func (h *Handler) SetTransferRecipient(c *fiber.Ctx) error {
	var req recipientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool { return s.SetTransferRecipient(req.Recipient) })
}

type amountRequest struct {
	Amount string `json:"amount"`
}

// SetTransferAmount updates the amount input.
func (h *Handler) SetTransferAmount(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool { return s.SetTransferAmount(req.Amount) })
}

// TransferNext advances the transfer flow past a gated step.
func (h *Handler) TransferNext(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.TransferNext() })
}

// TransferBack navigates the transfer flow back.
func (h *Handler) TransferBack(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.TransferBack() })
}

type methodRequest struct {
	Method string `json:"method"`
}

// TransferSelect records a payment method.
func (h *Handler) TransferSelect(c *fiber.Ctx) error {
	var req methodRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.event(c, func(s *Session) bool { return s.TransferSelect(transfer.Method(req.Method)) })
}

// TransferComplete commits the finished transfer.
func (h *Handler) TransferComplete(c *fiber.Ctx) error {
	return h.event(c, func(s *Session) bool { return s.TransferComplete() })
}

func (h *Handler) session(c *fiber.Ctx) (*Session, error) {
	s, ok := h.manager.Get(c.Params("sessionId"))
	if !ok {
		return nil, fiber.NewError(http.StatusNotFound, "session not found")
	}
	return s, nil
}

func (h *Handler) event(c *fiber.Ctx, fn func(*Session) bool) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	applied := fn(s)
	return c.JSON(eventResponse{Applied: applied, Snapshot: s.Snapshot()})
}
