package session

// Snapshot is the read model the presentation layer renders from. It is a
// copy; mutating it has no effect on the session.
type Snapshot struct {
	SessionID     string            `json:"session_id"`
	Onboarding    OnboardingState   `json:"onboarding"`
	Verification  VerificationState `json:"verification"`
	Transfer      TransferState     `json:"transfer"`
	Profile       ProfileState      `json:"profile"`
	PromptVisible bool              `json:"verification_prompt_visible"`
}

// OnboardingState mirrors the onboarding flow.
type OnboardingState struct {
	Stage        string   `json:"stage"`
	Phone        string   `json:"phone"`
	Otp          []string `json:"otp"`
	OtpRemaining int      `json:"otp_remaining"`
	OtpDisplay   string   `json:"otp_display"`
	OtpComplete  bool     `json:"otp_complete"`
}

// VerificationState mirrors the verification flow.
type VerificationState struct {
	Step           string `json:"step"`
	FrontUploaded  bool   `json:"front_uploaded"`
	BackUploaded   bool   `json:"back_uploaded"`
	SelfieUploaded bool   `json:"selfie_uploaded"`
}

// TransferState mirrors the transfer flow.
type TransferState struct {
	Step       string `json:"step"`
	Recipient  string `json:"recipient"`
	Amount     string `json:"amount"`
	Method     string `json:"method"`
	Processing bool   `json:"processing"`
}

// ProfileState is the display profile plus the cross-flow flags.
type ProfileState struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Verified         bool   `json:"verified"`
	TransferLimitUSD int    `json:"transfer_limit_usd"`
}

// Snapshot captures the full session state under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := transferLimitBasicUSD
	if s.verified {
		limit = transferLimitVerifiedUSD
	}

	uploads := s.verification.Uploads()
	return Snapshot{
		SessionID: s.id,
		Onboarding: OnboardingState{
			Stage:        s.onboarding.Stage().String(),
			Phone:        s.onboarding.Phone(),
			Otp:          s.onboarding.Otp(),
			OtpRemaining: s.onboarding.Remaining(),
			OtpDisplay:   s.onboarding.FormatRemaining(),
			OtpComplete:  s.onboarding.OtpComplete(),
		},
		Verification: VerificationState{
			Step:           s.verification.Step().String(),
			FrontUploaded:  uploads.Front,
			BackUploaded:   uploads.Back,
			SelfieUploaded: uploads.Selfie,
		},
		Transfer: TransferState{
			Step:       s.transfer.Step().String(),
			Recipient:  s.transfer.Recipient(),
			Amount:     s.transfer.Amount(),
			Method:     string(s.transfer.Method()),
			Processing: s.transfer.Processing(),
		},
		Profile: ProfileState{
			Name:             defaultProfileName,
			Phone:            defaultProfilePhone,
			Verified:         s.verified,
			TransferLimitUSD: limit,
		},
		PromptVisible: s.promptVisible,
	}
}
