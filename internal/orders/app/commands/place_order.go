package commands

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/ports"
)

const (
	maxOrderLines   = 50
	maxLineQuantity = 100
)

var (
	zipCodePattern = regexp.MustCompile(`^\d{5,10}$`)
	idPattern      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// OrderLineRequest is a single requested line: which product and how many units.
type OrderLineRequest struct {
	ProductID string
	Quantity  int
}

// PlaceOrderCommand carries a raw order request. Validate must pass before the
// command reaches any persistent state.
type PlaceOrderCommand struct {
	Items         []OrderLineRequest
	CustomerName  string
	CustomerEmail string
	Address       domain.Address
	UserID        string
}

// Validate checks every field against the storefront's order constraints. It
// is a pure function over the command: the first failing field aborts with a
// ValidationError naming that field.
func (c PlaceOrderCommand) Validate() error {
	if len(c.Items) == 0 {
		return domain.NewValidationError("items", "order must contain at least one item")
	}
	if len(c.Items) > maxOrderLines {
		return domain.NewValidationError("items", fmt.Sprintf("order cannot contain more than %d line entries", maxOrderLines))
	}

	for i, item := range c.Items {
		field := fmt.Sprintf("items[%d]", i)
		if !idPattern.MatchString(item.ProductID) {
			return domain.NewValidationError(field+".productId", "product id is not well-formed")
		}
		if item.Quantity <= 0 {
			return domain.NewValidationError(field+".quantity", "quantity must be a positive integer")
		}
		if item.Quantity > maxLineQuantity {
			return domain.NewValidationError(field+".quantity", fmt.Sprintf("quantity cannot exceed %d", maxLineQuantity))
		}
	}

	name := strings.TrimSpace(c.CustomerName)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return domain.NewValidationError("customerName", "must be between 2 and 100 characters")
	}

	if err := validateEmail(c.CustomerEmail); err != nil {
		return err
	}

	if err := validateAddress(c.Address); err != nil {
		return err
	}

	if c.UserID != "" && !idPattern.MatchString(c.UserID) {
		return domain.NewValidationError("userId", "user id is not well-formed")
	}

	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return domain.NewValidationError("customerEmail", "must be a valid email address")
	}
	// Reject "Name <addr>" forms; the field is a bare address.
	if addr.Address != strings.TrimSpace(email) {
		return domain.NewValidationError("customerEmail", "must be a valid email address")
	}
	return nil
}

func validateAddress(a domain.Address) error {
	if err := validateLength("address.street", a.Street, 5, 200); err != nil {
		return err
	}
	if err := validateLength("address.city", a.City, 2, 100); err != nil {
		return err
	}
	if err := validateLength("address.state", a.State, 2, 100); err != nil {
		return err
	}
	if !zipCodePattern.MatchString(a.ZipCode) {
		return domain.NewValidationError("address.zipCode", "must be 5 to 10 digits")
	}
	if err := validateLength("address.country", a.Country, 2, 100); err != nil {
		return err
	}
	return nil
}

func validateLength(field, value string, min, max int) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(value)); n < min || n > max {
		return domain.NewValidationError(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
	return nil
}

// CommandHandler executes order placement.
type CommandHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

// PlaceOrderCommandHandler validates the request and delegates the atomic
// inventory-safe placement to the repository.
type PlaceOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewPlaceOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		repo:   repo,
		events: events,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, line := range cmd.Items {
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		UserID:        strings.TrimSpace(cmd.UserID),
		CustomerName:  strings.TrimSpace(cmd.CustomerName),
		CustomerEmail: strings.TrimSpace(cmd.CustomerEmail),
		Address:       cmd.Address,
		Status:        domain.StatusPending,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	placed, err := h.repo.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, placed.ID); err != nil {
		return placed, fmt.Errorf("order placed but failed to publish event: %w", err)
	}

	return placed, nil
}
