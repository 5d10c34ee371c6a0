// Package leads accepts the contact, property inquiry and tour booking
// forms. Leads are validated, rate limited, forwarded to a Notifier and
// acknowledged; they are never stored.
package leads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/messenger"
	"github.com/julianbeese/luxury_estate/internal/ratelimit"
)

// DefaultSubmitDelay is the simulated round trip before a lead is accepted
const DefaultSubmitDelay = 1500 * time.Millisecond

// Catalog resolves the property and tour a lead refers to
type Catalog interface {
	Property(id int) (domain.Property, error)
	Tour(id int) (domain.Tour, error)
}

// Notifier forwards accepted leads to the sales team
type Notifier interface {
	NotifyContact(ctx context.Context, req *domain.ContactRequest) error
	NotifyInquiry(ctx context.Context, inq *domain.PropertyInquiry) error
	NotifyBooking(ctx context.Context, b *domain.TourBooking, tour domain.Tour) error
}

// Service processes lead submissions
type Service struct {
	catalog   Catalog
	notifier  Notifier
	messenger *messenger.Generator
	limiter   *ratelimit.Limiter
	delay     time.Duration
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time

	mu     sync.Mutex
	counts map[domain.LeadKind]int
}

// NewService creates a lead service. A nil limiter disables rate limiting.
func NewService(
	cat Catalog,
	notifier Notifier,
	gen *messenger.Generator,
	limiter *ratelimit.Limiter,
	delay time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		catalog:   cat,
		notifier:  notifier,
		messenger: gen,
		limiter:   limiter,
		delay:     delay,
		logger:    logger,
		validate:  newValidator(),
		now:       time.Now,
		counts:    make(map[domain.LeadKind]int),
	}
}

// SubmitContact handles the general contact form
func (s *Service) SubmitContact(ctx context.Context, client string, req domain.ContactRequest) (domain.Receipt, error) {
	trim(&req.Name, &req.Email, &req.Phone, &req.Message)
	if err := s.validate.Struct(req); err != nil {
		return domain.Receipt{}, structError(err)
	}

	if err := s.admit(ctx, client); err != nil {
		return domain.Receipt{}, err
	}

	if err := s.notifier.NotifyContact(ctx, &req); err != nil {
		s.logger.Error("contact notification failed", "email", req.Email, "error", err)
	}

	return s.receipt(domain.LeadContact, messenger.TemplateData{Name: req.Name})
}

// SubmitInquiry handles an inquiry about a specific property
func (s *Service) SubmitInquiry(ctx context.Context, client string, inq domain.PropertyInquiry) (domain.Receipt, error) {
	trim(&inq.FullName, &inq.Email, &inq.Phone, &inq.Property, &inq.Message)
	if err := s.validate.Struct(inq); err != nil {
		return domain.Receipt{}, structError(err)
	}

	data := messenger.TemplateData{Name: inq.FullName, PropertyName: inq.Property}
	if inq.PropertyID != 0 {
		p, err := s.catalog.Property(inq.PropertyID)
		if err != nil {
			return domain.Receipt{}, domain.ValidationError{Field: "propertyId", Msg: "unknown property", Err: err}
		}
		data.PropertyName = p.Name
		data.PropertyPrice = p.Price
	}

	if err := s.admit(ctx, client); err != nil {
		return domain.Receipt{}, err
	}

	if err := s.notifier.NotifyInquiry(ctx, &inq); err != nil {
		s.logger.Error("inquiry notification failed", "email", inq.Email, "property", inq.Property, "error", err)
	}

	return s.receipt(domain.LeadInquiry, data)
}

// SubmitBooking handles a tour booking request
func (s *Service) SubmitBooking(ctx context.Context, client string, b domain.TourBooking) (domain.Receipt, error) {
	trim(&b.FullName, &b.Email, &b.Phone, &b.TourDate, &b.SpecialRequests)
	if err := s.validate.Struct(b); err != nil {
		return domain.Receipt{}, structError(err)
	}

	tour, err := s.catalog.Tour(b.TourID)
	if err != nil {
		return domain.Receipt{}, domain.ValidationError{Field: "tourId", Msg: "unknown tour", Err: err}
	}
	if err := checkTourDate(b.TourDate, s.now()); err != nil {
		return domain.Receipt{}, err
	}

	if err := s.admit(ctx, client); err != nil {
		return domain.Receipt{}, err
	}

	if err := s.notifier.NotifyBooking(ctx, &b, tour); err != nil {
		s.logger.Error("booking notification failed", "email", b.Email, "tour", tour.Name, "error", err)
	}

	return s.receipt(domain.LeadTourBooking, messenger.TemplateData{
		Name:     b.FullName,
		TourName: tour.Name,
		TourDate: b.TourDate,
		Guests:   b.NumberOfGuests,
	})
}

// Counts returns the number of accepted leads per kind
func (s *Service) Counts() map[domain.LeadKind]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[domain.LeadKind]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// admit applies the rate limit and then waits out the submit delay
func (s *Service) admit(ctx context.Context, client string) error {
	if s.limiter != nil && !s.limiter.Allow(client) {
		s.logger.Warn("lead rejected by rate limit", "client", client, "retry_after", s.limiter.RetryAfter(client))
		return domain.ErrRateLimited
	}

	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("submit lead: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (s *Service) receipt(kind domain.LeadKind, data messenger.TemplateData) (domain.Receipt, error) {
	ack, err := s.messenger.Acknowledge(kind, data)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("render acknowledgement: %w", err)
	}

	s.mu.Lock()
	s.counts[kind]++
	s.mu.Unlock()

	r := domain.Receipt{
		ID:              uuid.NewString(),
		Kind:            kind,
		Status:          domain.StatusSuccess,
		Acknowledgement: ack,
		SubmittedAt:     s.now().UTC(),
	}
	s.logger.Info("lead accepted", "id", r.ID, "kind", kind)
	return r, nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
