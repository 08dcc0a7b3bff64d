package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	orderserrors "ginhawa/internal/orders/errors"
	"ginhawa/internal/orders/repository"
	"ginhawa/internal/orders/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"
	"ginhawa/pkg/sanitizer"
	"ginhawa/pkg/validation"
)

type OrderService interface {
	Menu(category model.MenuCategory) ([]model.MenuItem, error)
	Place(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error)
	ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Order, int64, error)
	AdvanceStatus(ctx context.Context, id string, next model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	repo      repository.OrderRepository
	validator *validator.OrderValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewOrderService(repo repository.OrderRepository, validator *validator.OrderValidator, publisher events.Publisher, cfg *config.Config) OrderService {
	return &orderService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *orderService) Menu(category model.MenuCategory) ([]model.MenuItem, error) {
	switch category {
	case "", model.CategoryFood, model.CategoryDrink:
		return model.MenuFor(category), nil
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown menu category %q, expected Food or Drink", category))
	}
}

// Place prices every line from the menu, merges repeated items and stores
// the order as Pending.
func (s *orderService) Place(ctx context.Context, order *model.Order) error {
	order.ID = ""
	order.TableOrRoomNumber = sanitizer.NormalizeLabel(order.TableOrRoomNumber)
	order.CustomerEmail = sanitizer.NormalizeEmail(order.CustomerEmail)
	order.CustomerName = sanitizer.NormalizeName(order.CustomerName)
	order.Notes = sanitizer.NormalizeText(order.Notes, 500)

	if _, err := s.Menu(order.Category); err != nil || order.Category == "" {
		return apperrors.Validation("Order validation failed", map[string]any{
			"category": "category must be one of: Food, Drink",
		})
	}

	items, err := PriceItems(order.Category, order.Items)
	if err != nil {
		return validationError(err)
	}
	order.Items = items

	if err := s.validator.Validate(order); err != nil {
		s.cfg.Log.Warn("Order validation failed", "table_or_room", order.TableOrRoomNumber, "error", err)
		return validationError(err)
	}

	order.Reference = ident.NewReference(ident.PrefixOrder)
	order.TotalPrice = Total(order.Items)
	order.Status = model.OrderPending
	order.ServedAt = nil

	if err := s.repo.Create(ctx, order); err != nil {
		s.cfg.Log.Error("Failed to create order", "reference", order.Reference, "error", err)
		return apperrors.Internal("Failed to place order", err)
	}

	s.cfg.Log.Info("Order placed",
		"id", order.ID,
		"reference", order.Reference,
		"category", order.Category,
		"total", order.TotalPrice,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.OrderPlaced, Key: order.Reference, Payload: order})
	return nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, orderserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Order", id)
		case errors.Is(err, orderserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid order ID format")
		}
		s.cfg.Log.Error("Failed to retrieve order", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve order", err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error) {
	if filter.Category != "" && filter.Category != model.CategoryFood && filter.Category != model.CategoryDrink {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown category %q", filter.Category))
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		orders   []*model.Order
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
		orders, findErr = s.repo.Find(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(countErr, findErr); err != nil {
		s.cfg.Log.Error("Failed to list orders", "category", filter.Category, "status", filter.Status, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve orders", err)
	}
	return orders, total, nil
}

func (s *orderService) ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Order, int64, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, 0, apperrors.InvalidInput("Customer email cannot be empty")
	}
	return s.List(ctx, model.OrderFilter{CustomerEmail: email}, limit, offset)
}

func (s *orderService) AdvanceStatus(ctx context.Context, id string, next model.OrderStatus) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition("Order", string(order.Status), string(next))
	}

	set := map[string]any{}
	if next == model.OrderServed {
		servedAt := time.Now().UTC().Truncate(time.Millisecond)
		set["served_at"] = servedAt
		order.ServedAt = &servedAt
	}

	if err := s.repo.Transition(ctx, order.ID, order.Status, next, set); err != nil {
		if errors.Is(err, orderserrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Order", string(order.Status), string(next))
		}
		s.cfg.Log.Error("Failed to update order status", "id", id, "status", next, "error", err)
		return nil, apperrors.Internal("Failed to update order", err)
	}

	s.cfg.Log.Info("Order status updated", "id", order.ID, "reference", order.Reference, "from", order.Status, "to", next)
	order.Status = next
	if next == model.OrderServed {
		s.publisher.Publish(ctx, events.Event{Type: events.OrderServed, Key: order.Reference, Payload: order})
	}
	return order, nil
}

// PriceItems replaces client prices with menu prices and merges lines that
// name the same dish. Merged lines keep the position of their first mention.
// Each line is range checked before merging so a negative line cannot
// offset another; the merged total is checked again by the validator.
func PriceItems(category model.MenuCategory, items []model.OrderItem) ([]model.OrderItem, error) {
	var errs validation.ValidationErrors
	merged := make([]model.OrderItem, 0, len(items))
	index := make(map[string]int, len(items))

	for i, item := range items {
		menuItem, ok := model.LookupMenuItem(category, item.Name)
		if !ok {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: fmt.Sprintf("%q is not on the %s menu", item.Name, category),
			})
			continue
		}
		if item.Quantity < model.MinItemQuantity || item.Quantity > model.MaxItemQuantity {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("quantity must be between %d and %d", model.MinItemQuantity, model.MaxItemQuantity),
			})
			continue
		}
		if pos, seen := index[menuItem.Name]; seen {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[menuItem.Name] = len(merged)
		merged = append(merged, model.OrderItem{Name: menuItem.Name, Price: menuItem.Price, Quantity: item.Quantity})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return merged, nil
}

func Total(items []model.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Order validation failed", verrs.Details())
	}
	return apperrors.Validation("Order validation failed", map[string]any{"error": err.Error()})
}
