package verification

import (
	"context"
	"log/slog"
)

// Slot tags which capture an upload belongs to.
type Slot string

const (
	SlotFront  Slot = "front"
	SlotBack   Slot = "back"
	SlotSelfie Slot = "selfie"
)

// Uploads is the completed capture set handed to review.
type Uploads struct {
	Front  bool
	Back   bool
	Selfie bool
}

// Service is the external verification collaborator: it accepts captures per
// slot and reviews the completed set. The core only needs a boolean accepted
// signal per slot and an immediately-resolved review.
type Service interface {
	Accept(ctx context.Context, slot Slot) (bool, error)
	Review(ctx context.Context, uploads Uploads) error
}

// LoggerService is a stub implementation that accepts every capture and
// resolves every review, writing what happened to the structured logger.
type LoggerService struct {
	logger *slog.Logger
}

// NewLoggerService constructs the logging stub.
func NewLoggerService(logger *slog.Logger) *LoggerService {
	return &LoggerService{logger: logger}
}

// Accept approves the capture.
func (s *LoggerService) Accept(_ context.Context, slot Slot) (bool, error) {
	if s != nil && s.logger != nil {
		s.logger.Info("verification upload accepted", "slot", string(slot))
	}
	return true, nil
}

// Review resolves the completed upload set.
func (s *LoggerService) Review(_ context.Context, uploads Uploads) error {
	if s != nil && s.logger != nil {
		s.logger.Info("verification review resolved",
			"front", uploads.Front, "back", uploads.Back, "selfie", uploads.Selfie)
	}
	return nil
}
