package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/storefront/orders-inventory/internal/domains/catalog/application"
	catalogports "github.com/storefront/orders-inventory/internal/domains/catalog/ports"
	ordersapp "github.com/storefront/orders-inventory/internal/domains/orders/application"
	ordersdomain "github.com/storefront/orders-inventory/internal/domains/orders/domain"
	ordersports "github.com/storefront/orders-inventory/internal/domains/orders/ports"
	webhooksapp "github.com/storefront/orders-inventory/internal/domains/webhooks/application"
	apierrors "github.com/storefront/orders-inventory/internal/shared/errors"
)

// serviceResponder turns application errors into RFC 7807 responses. The
// mapper chain covers every sentinel error the bounded contexts expose;
// anything unmapped falls through to a 500.
var serviceResponder = apierrors.NewChainedResponder("",
	mapCatalogErrors,
	mapOrderErrors,
	mapWebhookErrors,
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	serviceResponder.Respond(c, problem)
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	serviceResponder.RespondError(c, err)
}

func mapCatalogErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrDuplicateSKU):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidPage),
		errors.Is(err, catalogapp.ErrMissingFields):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrderErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrInsufficientStock):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, ordersdomain.ErrInvalidTransition),
		errors.Is(err, ordersdomain.ErrNotCancelable):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapWebhookErrors(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, webhooksapp.ErrInvalidSignature):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, webhooksapp.ErrMalformedPayload):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, webhooksapp.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
