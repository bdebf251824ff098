package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"customer-sync/internal/config"
	"customer-sync/internal/dto"
	"customer-sync/internal/services"
	"customer-sync/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CustomerFetcherTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	upstream *service_mocks.MockUpstreamClientInterface
	logger   *service_mocks.MockSyncLoggerInterface
	ctx      context.Context
}

func TestCustomerFetcherSuite(t *testing.T) {
	suite.Run(t, new(CustomerFetcherTestSuite))
}

func (s *CustomerFetcherTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.upstream = service_mocks.NewMockUpstreamClientInterface(s.ctrl)
	s.logger = service_mocks.NewMockSyncLoggerInterface(s.ctrl)
	s.logger.EXPECT().LogPageFetched(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.logger.EXPECT().LogFetchCompleted(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.ctx = context.Background()
}

func (s *CustomerFetcherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func records(from, to int) []dto.CustomerRecord {
	out := make([]dto.CustomerRecord, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, dto.CustomerRecord{
			CustomerID: fmt.Sprintf("CUST-%03d", i),
			FirstName:  "First",
			LastName:   "Last",
			Email:      fmt.Sprintf("c%d@example.com", i),
		})
	}
	return out
}

func (s *CustomerFetcherTestSuite) TestFetchAll_ConcatenatesPagesInOrder() {
	gomock.InOrder(
		s.upstream.EXPECT().FetchPage(gomock.Any(), 1, 10).Return(&dto.UpstreamCustomerPage{Data: records(1, 10), Total: 25}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 2, 10).Return(&dto.UpstreamCustomerPage{Data: records(11, 20), Total: 25}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 3, 10).Return(&dto.UpstreamCustomerPage{Data: records(21, 25), Total: 25}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 4, 10).Return(&dto.UpstreamCustomerPage{Data: []dto.CustomerRecord{}, Total: 25}, nil),
	)

	fetcher := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger)
	result, err := fetcher.FetchAll(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(result, 25)
	for i, record := range result {
		s.Equal(fmt.Sprintf("CUST-%03d", i+1), record.CustomerID)
	}
}

func (s *CustomerFetcherTestSuite) TestFetchAll_EmptyFirstPage() {
	s.upstream.EXPECT().FetchPage(gomock.Any(), 1, 10).Return(&dto.UpstreamCustomerPage{}, nil)

	result, err := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger).FetchAll(s.ctx)

	s.Require().NoError(err)
	s.Empty(result)
}

func (s *CustomerFetcherTestSuite) TestFetchAll_AbortsOnPageError() {
	upstreamErr := fmt.Errorf("%w: status 503", services.ErrUpstreamUnavailable)
	gomock.InOrder(
		s.upstream.EXPECT().FetchPage(gomock.Any(), 1, 10).Return(&dto.UpstreamCustomerPage{Data: records(1, 10)}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 2, 10).Return(nil, upstreamErr),
	)

	result, err := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger).FetchAll(s.ctx)

	s.Require().Error(err)
	s.Nil(result)
	s.True(errors.Is(err, services.ErrUpstreamUnavailable))
	s.Contains(err.Error(), "page 2")
}

func (s *CustomerFetcherTestSuite) TestFetchAll_PageLimitExceeded() {
	s.upstream.EXPECT().FetchPage(gomock.Any(), gomock.Any(), 10).
		Return(&dto.UpstreamCustomerPage{Data: records(1, 10)}, nil).
		Times(3)

	_, err := services.NewCustomerFetcher(s.upstream, 10, 2, s.logger).FetchAll(s.ctx)

	s.True(errors.Is(err, services.ErrPageLimitExceeded))
}

func (s *CustomerFetcherTestSuite) TestFetchAll_ExactlyMaxPagesSucceeds() {
	gomock.InOrder(
		s.upstream.EXPECT().FetchPage(gomock.Any(), 1, 10).Return(&dto.UpstreamCustomerPage{Data: records(1, 10)}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 2, 10).Return(&dto.UpstreamCustomerPage{Data: records(11, 20)}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 3, 10).Return(&dto.UpstreamCustomerPage{}, nil),
	)

	result, err := services.NewCustomerFetcher(s.upstream, 10, 2, s.logger).FetchAll(s.ctx)

	s.Require().NoError(err)
	s.Len(result, 20)
}

func (s *CustomerFetcherTestSuite) TestFetchAll_OverrunAgainstReportedTotal() {
	// provider ignores the page parameter and keeps serving the first page
	s.upstream.EXPECT().FetchPage(gomock.Any(), gomock.Any(), 10).
		Return(&dto.UpstreamCustomerPage{Data: records(1, 10), Total: 15}, nil).
		Times(2)

	_, err := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger).FetchAll(s.ctx)

	s.True(errors.Is(err, services.ErrUpstreamOverrun))
}

func (s *CustomerFetcherTestSuite) TestFetchAll_ZeroTotalSkipsOverrunCheck() {
	gomock.InOrder(
		s.upstream.EXPECT().FetchPage(gomock.Any(), 1, 10).Return(&dto.UpstreamCustomerPage{Data: records(1, 10)}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 2, 10).Return(&dto.UpstreamCustomerPage{Data: records(11, 12)}, nil),
		s.upstream.EXPECT().FetchPage(gomock.Any(), 3, 10).Return(&dto.UpstreamCustomerPage{}, nil),
	)

	result, err := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger).FetchAll(s.ctx)

	s.Require().NoError(err)
	s.Len(result, 12)
}

func (s *CustomerFetcherTestSuite) TestFetchAll_CancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := services.NewCustomerFetcher(s.upstream, 10, 100, s.logger).FetchAll(ctx)

	s.True(errors.Is(err, context.Canceled))
}

func (s *CustomerFetcherTestSuite) TestFetchAll_DefaultsForNonPositiveSizes() {
	s.upstream.EXPECT().FetchPage(gomock.Any(), 1, services.DefaultPageSize).Return(&dto.UpstreamCustomerPage{}, nil)

	_, err := services.NewCustomerFetcher(s.upstream, 0, 0, s.logger).FetchAll(s.ctx)

	s.NoError(err)
}

// TestFetchAll_RequestCountOverHTTP drives the real client against a paginating
// provider and checks that R records cost ceil(R/10)+1 requests.
func TestFetchAll_RequestCountOverHTTP(t *testing.T) {
	const totalRecords = 25
	all := records(1, totalRecords)

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		start := (page - 1) * limit
		end := start + limit
		if start > len(all) {
			start = len(all)
		}
		if end > len(all) {
			end = len(all)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.UpstreamCustomerPage{
			Data:  all[start:end],
			Total: len(all),
			Page:  page,
			Limit: limit,
		})
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	logger := service_mocks.NewMockSyncLoggerInterface(ctrl)
	logger.EXPECT().LogPageFetched(gomock.Any(), gomock.Any(), gomock.Any()).Times(3)
	logger.EXPECT().LogFetchCompleted(gomock.Any(), 3, totalRecords, gomock.Any()).Times(1)

	client := services.NewUpstreamClient(&config.UpstreamConfig{BaseURL: server.URL, Timeout: time.Second}, nil, nil, discardSlog())
	result, err := services.NewCustomerFetcher(client, 10, 100, logger).FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, result, totalRecords)
	assert.Equal(t, int32(4), atomic.LoadInt32(&requests))
}

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
