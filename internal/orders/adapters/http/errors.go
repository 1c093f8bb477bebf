package http

import (
	"errors"
	"net/http"

	"github.com/veloura/storefront/internal/orders/domain"
	"github.com/veloura/storefront/internal/orders/ports"
)

// Stable error codes exposed to clients. Internal failure detail never
// crosses this boundary.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStockError       = "STOCK_ERROR"
	CodeOrderCreateError = "ORDER_CREATE_ERROR"
)

type classified struct {
	Status  int
	Code    string
	Message string
	Details string
}

// classify maps the internal failure taxonomy onto the wire contract. Every
// unrecognized error becomes the generic server-error triple; its detail is
// for server-side logs only.
func classify(err error) classified {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return classified{
			Status:  http.StatusBadRequest,
			Code:    CodeValidationError,
			Message: "invalid order request",
			Details: validation.Error(),
		}
	}

	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return classified{
			Status:  http.StatusBadRequest,
			Code:    CodeValidationError,
			Message: "invalid status transition",
			Details: transition.Error(),
		}
	}

	var notFound *ports.ProductNotFoundError
	if errors.As(err, &notFound) {
		return classified{
			Status:  http.StatusNotFound,
			Code:    CodeNotFound,
			Message: notFound.Error(),
		}
	}

	if errors.Is(err, ports.ErrOrderNotFound) {
		return classified{
			Status:  http.StatusNotFound,
			Code:    CodeNotFound,
			Message: "order not found",
		}
	}

	var insufficient *ports.InsufficientStockError
	if errors.As(err, &insufficient) {
		return classified{
			Status:  http.StatusBadRequest,
			Code:    CodeStockError,
			Message: insufficient.Error(),
		}
	}

	var concurrent *ports.ConcurrentModificationError
	if errors.As(err, &concurrent) {
		return classified{
			Status:  http.StatusBadRequest,
			Code:    CodeStockError,
			Message: concurrent.Error(),
		}
	}

	return classified{
		Status:  http.StatusInternalServerError,
		Code:    CodeOrderCreateError,
		Message: "failed to create order",
	}
}
