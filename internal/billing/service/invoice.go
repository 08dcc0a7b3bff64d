package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	billingerrors "ginhawa/internal/billing/errors"
	"ginhawa/internal/billing/repository"
	"ginhawa/internal/billing/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"
)

// DefaultExportDays is the window exported when no start day is given.
const DefaultExportDays = 30

type BillingService interface {
	// RaiseForBooking and RaiseForOrder return a nil invoice without error
	// when the source was already invoiced.
	RaiseForBooking(ctx context.Context, booking *model.Booking) (*model.Invoice, error)
	RaiseForOrder(ctx context.Context, order *model.Order) (*model.Invoice, error)
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, filter model.InvoiceFilter, limit int, offset int64) ([]*model.Invoice, int64, error)
	Pay(ctx context.Context, id string, req *model.PaymentRequest) (*model.Invoice, error)
	Revenue(ctx context.Context, todayOnly bool) (*model.Revenue, error)
	ExportXLSX(ctx context.Context, from, to model.Date, w io.Writer) error
}

type billingService struct {
	repo      repository.InvoiceRepository
	validator *validator.InvoiceValidator
	cfg       *config.Config
}

func NewBillingService(repo repository.InvoiceRepository, validator *validator.InvoiceValidator, cfg *config.Config) BillingService {
	return &billingService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *billingService) RaiseForBooking(ctx context.Context, booking *model.Booking) (*model.Invoice, error) {
	if booking == nil || booking.ID == "" {
		return nil, apperrors.InvalidInput("Booking is missing its ID")
	}
	if booking.Status != model.BookingCheckedOut {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Booking %s is %s, invoices are raised at check-out", booking.Reference, booking.Status))
	}

	invoice := &model.Invoice{
		Source:          model.InvoiceSourceBooking,
		SourceID:        booking.ID,
		SourceReference: booking.Reference,
		CustomerEmail:   booking.CustomerEmail,
		CustomerName:    booking.CustomerName,
		RoomNumber:      booking.RoomNumber,
		PaymentMethod:   booking.PaymentMethod,
		Lines:           []model.InvoiceLine{BookingLine(booking)},
	}
	return s.raise(ctx, invoice)
}

func (s *billingService) RaiseForOrder(ctx context.Context, order *model.Order) (*model.Invoice, error) {
	if order == nil || order.ID == "" {
		return nil, apperrors.InvalidInput("Order is missing its ID")
	}
	if order.Status != model.OrderServed {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Order %s is %s, invoices are raised once served", order.Reference, order.Status))
	}

	lines := make([]model.InvoiceLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, model.InvoiceLine{
			Description: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Amount:      item.Subtotal(),
		})
	}

	invoice := &model.Invoice{
		Source:          model.InvoiceSourceOrder,
		SourceID:        order.ID,
		SourceReference: order.Reference,
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName,
		Lines:           lines,
	}
	return s.raise(ctx, invoice)
}

func (s *billingService) raise(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	invoice.ID = ""
	invoice.Total = Total(invoice.Lines)
	invoice.PaymentStatus = model.PaymentUnpaid
	invoice.PaidAt = nil

	if err := s.validator.ValidateInvoice(invoice); err != nil {
		s.cfg.Log.Warn("Invoice validation failed", "source", invoice.Source, "source_id", invoice.SourceID, "error", err)
		return nil, validationError(err)
	}

	invoice.Reference = ident.NewReference(ident.PrefixInvoice)
	if err := s.repo.Create(ctx, invoice); err != nil {
		if errors.Is(err, billingerrors.ErrAlreadyRaised) {
			s.cfg.Log.Info("Invoice already raised, skipping", "source", invoice.Source, "source_id", invoice.SourceID)
			return nil, nil
		}
		s.cfg.Log.Error("Failed to create invoice", "source", invoice.Source, "source_id", invoice.SourceID, "error", err)
		return nil, apperrors.Internal("Failed to raise invoice", err)
	}

	s.cfg.Log.Info("Invoice raised",
		"id", invoice.ID,
		"reference", invoice.Reference,
		"source", invoice.Source,
		"source_reference", invoice.SourceReference,
		"total", invoice.Total,
	)
	return invoice, nil
}

func (s *billingService) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Invoice ID cannot be empty")
	}

	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, billingerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Invoice", id)
		case errors.Is(err, billingerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid invoice ID format")
		}
		s.cfg.Log.Error("Failed to retrieve invoice", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve invoice", err)
	}
	return invoice, nil
}

func (s *billingService) List(ctx context.Context, filter model.InvoiceFilter, limit int, offset int64) ([]*model.Invoice, int64, error) {
	if err := checkFilter(filter); err != nil {
		return nil, 0, err
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		invoices []*model.Invoice
		total    int64
		countErr error
		findErr  error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		invoices, findErr = s.repo.Find(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(countErr, findErr); err != nil {
		s.cfg.Log.Error("Failed to list invoices", "payment_status", filter.PaymentStatus, "source", filter.Source, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve invoices", err)
	}
	return invoices, total, nil
}

// Pay settles an unpaid invoice. The method defaults to the one recorded
// on the invoice, usually the booking's payment method.
func (s *billingService) Pay(ctx context.Context, id string, req *model.PaymentRequest) (*model.Invoice, error) {
	if req == nil {
		req = &model.PaymentRequest{}
	}
	if err := s.validator.ValidatePayment(req); err != nil {
		return nil, validationError(err)
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.PaymentStatus != model.PaymentUnpaid {
		return nil, apperrors.InvalidTransition("Invoice", string(invoice.PaymentStatus), string(model.PaymentPaid))
	}

	method := req.PaymentMethod
	if method == "" {
		method = invoice.PaymentMethod
	}
	if method == "" {
		return nil, apperrors.Validation("Payment validation failed", map[string]any{
			"payment_method": "payment_method is required",
		})
	}

	paidAt := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.repo.MarkPaid(ctx, invoice.ID, method, paidAt); err != nil {
		if errors.Is(err, billingerrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Invoice", string(model.PaymentPaid), string(model.PaymentPaid))
		}
		s.cfg.Log.Error("Failed to mark invoice paid", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to record payment", err)
	}

	invoice.PaymentStatus = model.PaymentPaid
	invoice.PaymentMethod = method
	invoice.PaidAt = &paidAt
	s.cfg.Log.Info("Invoice paid", "id", invoice.ID, "reference", invoice.Reference, "method", method, "total", invoice.Total)
	return invoice, nil
}

func (s *billingService) Revenue(ctx context.Context, todayOnly bool) (*model.Revenue, error) {
	var since time.Time
	revenue := &model.Revenue{}
	if todayOnly {
		today := model.DateOf(s.cfg.Now())
		since = repository.StartOfDay(today, s.cfg.Location)
		revenue.Day = today.String()
	}

	total, count, err := s.repo.SumPaid(ctx, since)
	if err != nil {
		s.cfg.Log.Error("Failed to compute revenue", "today_only", todayOnly, "error", err)
		return nil, apperrors.Internal("Failed to compute revenue", err)
	}
	revenue.Total = total
	revenue.Invoices = count
	return revenue, nil
}

// ExportXLSX writes every invoice created between from and to, both
// inclusive. A missing to means today and a missing from means
// DefaultExportDays before to.
func (s *billingService) ExportXLSX(ctx context.Context, from, to model.Date, w io.Writer) error {
	if to.IsZero() {
		to = model.DateOf(s.cfg.Now())
	}
	if from.IsZero() {
		from = to.AddDays(-DefaultExportDays + 1)
	}
	if from.After(to) {
		return apperrors.InvalidInput(fmt.Sprintf("from (%s) must not be after to (%s)", from, to))
	}

	invoices, err := s.repo.Find(ctx, model.InvoiceFilter{From: from, To: to}, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to load invoices for export", "from", from, "to", to, "error", err)
		return apperrors.Internal("Failed to export invoices", err)
	}

	if err := WriteWorkbook(w, invoices, s.cfg.Location); err != nil {
		s.cfg.Log.Error("Failed to write invoice workbook", "from", from, "to", to, "error", err)
		return apperrors.Internal("Failed to export invoices", err)
	}
	s.cfg.Log.Info("Invoices exported", "from", from, "to", to, "rows", len(invoices))
	return nil
}

func checkFilter(filter model.InvoiceFilter) error {
	switch filter.PaymentStatus {
	case "", model.PaymentPaid, model.PaymentUnpaid:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown payment status %q", filter.PaymentStatus))
	}
	switch filter.Source {
	case "", model.InvoiceSourceBooking, model.InvoiceSourceOrder:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown invoice source %q", filter.Source))
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return apperrors.InvalidInput("from must not be after to")
	}
	return nil
}

func BookingLine(b *model.Booking) model.InvoiceLine {
	nights := b.Nights
	if nights <= 0 {
		nights = model.NightsBetween(b.CheckIn, b.CheckOut)
	}
	return model.InvoiceLine{
		Description: fmt.Sprintf("%s room, %s to %s", b.RoomType, b.CheckIn, b.CheckOut),
		Quantity:    nights,
		UnitPrice:   b.RoomPrice,
		Amount:      b.RoomPrice * int64(nights),
	}
}

func Total(lines []model.InvoiceLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Amount
	}
	return total
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Invoice validation failed", verrs.Details())
	}
	return apperrors.Validation("Invoice validation failed", map[string]any{"error": err.Error()})
}
