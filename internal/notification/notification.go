// Package notification holds the delivery collaborator for the
// registration lifecycle. Real delivery (email, push) lives outside
// this service; the logger implementation below is the stand-in.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/craftedmarket/api/internal/domain"
)

type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) RegistrationSubmitted(_ context.Context, registration domain.Registration) {
	zap.L().Info("notify: registration submitted",
		zap.String("reference", registration.Reference),
		zap.Uint("vendor_id", registration.VendorID))
}

func (n *LogNotifier) RegistrationConfirmed(_ context.Context, registration domain.Registration) {
	zap.L().Info("notify: registration confirmed",
		zap.String("reference", registration.Reference),
		zap.Uint("vendor_id", registration.VendorID))
}

func (n *LogNotifier) RegistrationCancelled(_ context.Context, registration domain.Registration) {
	zap.L().Info("notify: registration cancelled",
		zap.String("reference", registration.Reference),
		zap.Uint("vendor_id", registration.VendorID))
}
