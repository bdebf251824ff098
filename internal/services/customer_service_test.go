package services

import (
	"context"
	"errors"
	"testing"

	"customer-sync/internal/models"
	"customer-sync/internal/repositories"
	"customer-sync/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	customerRepo *repository_mocks.MockCustomerRepositoryInterface
	service      CustomerServiceInterface
	ctx          context.Context
}

func TestCustomerServiceSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}

func (s *CustomerServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.customerRepo = repository_mocks.NewMockCustomerRepositoryInterface(s.ctrl)
	s.service = NewCustomerService(s.customerRepo)
	s.ctx = context.Background()
}

func (s *CustomerServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CustomerServiceTestSuite) TestListCustomers_ComputesOffset() {
	page := []models.Customer{{CustomerID: "CUST-011"}, {CustomerID: "CUST-012"}}
	s.customerRepo.EXPECT().List(s.ctx, 10, 10).Return(page, int64(25), nil)

	customers, total, err := s.service.ListCustomers(s.ctx, 2, 10)

	s.Require().NoError(err)
	s.Equal(int64(25), total)
	s.Equal(page, customers)
}

func (s *CustomerServiceTestSuite) TestListCustomers_CapsLimit() {
	s.customerRepo.EXPECT().List(s.ctx, 0, MaxListLimit).Return(nil, int64(0), nil)

	_, _, err := s.service.ListCustomers(s.ctx, 1, 500)

	s.NoError(err)
}

func (s *CustomerServiceTestSuite) TestListCustomers_RejectsNonPositive() {
	_, _, err := s.service.ListCustomers(s.ctx, 0, 10)
	s.Equal(ErrInvalidPage, err)

	_, _, err = s.service.ListCustomers(s.ctx, 1, 0)
	s.Equal(ErrInvalidPage, err)
}

func (s *CustomerServiceTestSuite) TestListCustomers_RepositoryError() {
	s.customerRepo.EXPECT().List(s.ctx, 0, 10).Return(nil, int64(0), errors.New("connection reset"))

	_, _, err := s.service.ListCustomers(s.ctx, 1, 10)

	s.Require().Error(err)
	s.Contains(err.Error(), "connection reset")
}

func (s *CustomerServiceTestSuite) TestGetCustomer_Found() {
	expected := &models.Customer{CustomerID: "CUST-001", FirstName: "Ann"}
	s.customerRepo.EXPECT().GetByCustomerID(s.ctx, "CUST-001").Return(expected, nil)

	customer, err := s.service.GetCustomer(s.ctx, "CUST-001")

	s.Require().NoError(err)
	s.Equal(expected, customer)
}

func (s *CustomerServiceTestSuite) TestGetCustomer_NotFound() {
	s.customerRepo.EXPECT().GetByCustomerID(s.ctx, "missing").Return(nil, repositories.ErrCustomerNotFound)

	_, err := s.service.GetCustomer(s.ctx, "missing")

	s.Equal(ErrCustomerNotFound, err)
}

func (s *CustomerServiceTestSuite) TestGetCustomer_StorageError() {
	s.customerRepo.EXPECT().GetByCustomerID(s.ctx, "CUST-001").Return(nil, errors.New("database is locked"))

	_, err := s.service.GetCustomer(s.ctx, "CUST-001")

	s.Require().Error(err)
	s.False(errors.Is(err, ErrCustomerNotFound))
}
