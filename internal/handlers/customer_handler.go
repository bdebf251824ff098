package handlers

import (
	"errors"
	"net/http"

	"customer-sync/internal/dto"
	apierrors "customer-sync/internal/errors"
	"customer-sync/internal/models"
	"customer-sync/internal/services"

	"github.com/labstack/echo/v4"
)

// CustomerHandler serves the locally stored customer records
type CustomerHandler struct {
	customerService services.CustomerServiceInterface
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService services.CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// ListCustomers returns one page of stored customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid paging parameters"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_002 - Database error"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	var req dto.ListCustomersRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationInvalidFormat, apierrors.WithDetails("page and limit must be integers"))
	}

	if err := c.Validate(req); err != nil {
		return SendValidationError(c, err)
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = services.DefaultListLimit
	}

	customers, total, err := h.customerService.ListCustomers(c.Request().Context(), req.Page, req.Limit)
	if err != nil {
		return SendDatabaseError(c, err)
	}

	if customers == nil {
		customers = []models.Customer{}
	}

	return c.JSON(http.StatusOK, dto.ListCustomersResponse{
		Data:  customers,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	})
}

// GetCustomer returns a single stored customer
// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Upstream customer identifier"
// @Success 200 {object} models.Customer
// @Failure 400 {object} errors.ErrorResponse "CUSTOMER_004 - Empty customer ID"
// @Failure 404 {object} errors.ErrorResponse "CUSTOMER_001 - Customer not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_002 - Database error"
// @Router /api/v1/customers/{customer_id} [get]
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	req := dto.GetCustomerRequest{CustomerID: c.Param("customer_id")}
	if err := c.Validate(req); err != nil {
		return SendError(c, apierrors.CustomerInvalidID)
	}

	customer, err := h.customerService.GetCustomer(c.Request().Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return SendError(c, apierrors.CustomerNotFound)
		}
		return SendDatabaseError(c, err)
	}

	return c.JSON(http.StatusOK, customer)
}
