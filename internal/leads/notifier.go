package leads

import (
	"context"
	"log/slog"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

// LogNotifier writes leads to the log. It is used when no chat delivery is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyContact(_ context.Context, req *domain.ContactRequest) error {
	n.logger.Info("contact request", "name", req.Name, "email", req.Email, "phone", req.Phone)
	return nil
}

func (n *LogNotifier) NotifyInquiry(_ context.Context, inq *domain.PropertyInquiry) error {
	n.logger.Info("property inquiry", "name", inq.FullName, "email", inq.Email, "property", inq.Property, "property_id", inq.PropertyID)
	return nil
}

func (n *LogNotifier) NotifyBooking(_ context.Context, b *domain.TourBooking, tour domain.Tour) error {
	n.logger.Info("tour booking", "name", b.FullName, "email", b.Email, "tour", tour.Name, "date", b.TourDate, "guests", b.NumberOfGuests)
	return nil
}
