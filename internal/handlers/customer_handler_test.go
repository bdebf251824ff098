package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"customer-sync/internal/dto"
	apierrors "customer-sync/internal/errors"
	"customer-sync/internal/models"
	"customer-sync/internal/services"
	"customer-sync/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type CustomerHandlerTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	customerService *service_mocks.MockCustomerServiceInterface
	handler         *CustomerHandler
	e               *echo.Echo
}

func (s *CustomerHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.customerService = service_mocks.NewMockCustomerServiceInterface(s.ctrl)
	s.handler = NewCustomerHandler(s.customerService)
	s.e = echo.New()
	s.e.Validator = NewValidator()
}

func (s *CustomerHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCustomerHandlerSuite(t *testing.T) {
	suite.Run(t, new(CustomerHandlerTestSuite))
}

func (s *CustomerHandlerTestSuite) decodeError(rec *httptest.ResponseRecorder) apierrors.ErrorResponse {
	var response apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func (s *CustomerHandlerTestSuite) TestListCustomers_Defaults() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	customers := []models.Customer{
		{CustomerID: "CUST-001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{CustomerID: "CUST-002", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	}
	s.customerService.EXPECT().
		ListCustomers(gomock.Any(), 1, services.DefaultListLimit).
		Return(customers, int64(2), nil)

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListCustomersResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(int64(2), response.Total)
	s.Equal(1, response.Page)
	s.Equal(services.DefaultListLimit, response.Limit)
	s.Require().Len(response.Data, 2)
	s.Equal("CUST-001", response.Data[0].CustomerID)
}

func (s *CustomerHandlerTestSuite) TestListCustomers_ExplicitPage() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.customerService.EXPECT().
		ListCustomers(gomock.Any(), 2, 10).
		Return([]models.Customer{{CustomerID: "CUST-011"}}, int64(25), nil)

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListCustomersResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(int64(25), response.Total)
	s.Equal(2, response.Page)
	s.Equal(10, response.Limit)
}

func (s *CustomerHandlerTestSuite) TestListCustomers_EmptyStoreReturnsEmptyArray() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.customerService.EXPECT().
		ListCustomers(gomock.Any(), 1, services.DefaultListLimit).
		Return(nil, int64(0), nil)

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"data":[]`)
}

func (s *CustomerHandlerTestSuite) TestListCustomers_LimitTooLarge() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?limit=500", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.ValidationGeneral), s.decodeError(rec).Error.Code)
}

func (s *CustomerHandlerTestSuite) TestListCustomers_NonNumericPage() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=abc", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.ValidationInvalidFormat), s.decodeError(rec).Error.Code)
}

func (s *CustomerHandlerTestSuite) TestListCustomers_StoreFailure() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-123")

	s.customerService.EXPECT().
		ListCustomers(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, int64(0), errors.New("connection refused"))

	s.NoError(s.handler.ListCustomers(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	response := s.decodeError(rec)
	s.Equal(string(apierrors.SystemDatabaseError), response.Error.Code)
	s.Equal("trace-123", response.Error.TraceID)
	s.NotContains(rec.Body.String(), "connection refused")
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_Found() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/CUST-001", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("customer_id")
	c.SetParamValues("CUST-001")

	s.customerService.EXPECT().
		GetCustomer(gomock.Any(), "CUST-001").
		Return(&models.Customer{CustomerID: "CUST-001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil)

	s.NoError(s.handler.GetCustomer(c))
	s.Equal(http.StatusOK, rec.Code)

	var customer models.Customer
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &customer))
	s.Equal("CUST-001", customer.CustomerID)
	s.Nil(customer.Phone)
	s.False(customer.AccountBalance.Valid)
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_NotFound() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/CUST-404", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("customer_id")
	c.SetParamValues("CUST-404")

	s.customerService.EXPECT().
		GetCustomer(gomock.Any(), "CUST-404").
		Return(nil, services.ErrCustomerNotFound)

	s.NoError(s.handler.GetCustomer(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.CustomerNotFound), s.decodeError(rec).Error.Code)
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_EmptyID() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("customer_id")
	c.SetParamValues("")

	s.NoError(s.handler.GetCustomer(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.CustomerInvalidID), s.decodeError(rec).Error.Code)
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_OpaqueIDPassedThrough() {
	id := "CUST 001/" + strings.Repeat("A", 70)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/x", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("customer_id")
	c.SetParamValues(id)

	s.customerService.EXPECT().
		GetCustomer(gomock.Any(), id).
		Return(&models.Customer{CustomerID: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil)

	s.NoError(s.handler.GetCustomer(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), id)
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_StoreFailure() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/CUST-001", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("customer_id")
	c.SetParamValues("CUST-001")

	s.customerService.EXPECT().
		GetCustomer(gomock.Any(), "CUST-001").
		Return(nil, errors.New("disk I/O error"))

	s.NoError(s.handler.GetCustomer(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apierrors.SystemDatabaseError), s.decodeError(rec).Error.Code)
}
