package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ubique-pay/ubique_pay/internal/session"
)

// RegisterSessionRoutes wires the session lifecycle and the flow event
// endpoints. Event routes follow one shape: POST, optional JSON body, and an
// applied/snapshot response.
func RegisterSessionRoutes(api fiber.Router, h *session.Handler, rateLimiter fiber.Handler) {
	api.Post("/sessions", rateLimiter, h.Create)

	s := api.Group("/sessions/:sessionId")
	s.Get("", h.Get)
	s.Delete("", h.Delete)
	s.Get("/transactions", h.Transactions)

	onboarding := s.Group("/onboarding")
	onboarding.Post("/start", h.OnboardingStart)
	onboarding.Post("/back", h.OnboardingBack)
	onboarding.Post("/phone", h.SetPhone)
	onboarding.Post("/send-code", h.SendCode)
	onboarding.Post("/otp", h.SetOtpDigit)
	onboarding.Post("/create-account", h.CreateAccount)

	verification := s.Group("/verification")
	verification.Post("/start", h.VerificationStart)
	verification.Post("/upload", h.VerificationUpload)
	verification.Post("/next", h.VerificationNext)
	verification.Post("/back", h.VerificationBack)
	verification.Post("/submit", h.VerificationSubmit)
	verification.Post("/return-home", h.VerificationReturnHome)

	transfer := s.Group("/transfer")
	transfer.Post("/open", h.TransferOpen)
	transfer.Post("/close", h.TransferClose)
	transfer.Post("/recipient", h.SetTransferRecipient)
	transfer.Post("/amount", h.SetTransferAmount)
	transfer.Post("/next", h.TransferNext)
	transfer.Post("/back", h.TransferBack)
	transfer.Post("/method", h.TransferSelect)
	transfer.Post("/complete", h.TransferComplete)
}
