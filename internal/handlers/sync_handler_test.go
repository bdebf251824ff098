package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"customer-sync/internal/dto"
	apierrors "customer-sync/internal/errors"
	"customer-sync/internal/models"
	"customer-sync/internal/services"
	"customer-sync/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type SyncHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	syncService *service_mocks.MockSyncServiceInterface
	handler     *SyncHandler
	e           *echo.Echo
}

func (s *SyncHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.syncService = service_mocks.NewMockSyncServiceInterface(s.ctrl)
	s.handler = NewSyncHandler(s.syncService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.e = echo.New()
	s.e.Validator = NewValidator()
}

func (s *SyncHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncHandlerSuite(t *testing.T) {
	suite.Run(t, new(SyncHandlerTestSuite))
}

func (s *SyncHandlerTestSuite) decodeError(rec *httptest.ResponseRecorder) apierrors.ErrorResponse {
	var response apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func (s *SyncHandlerTestSuite) TestTriggerSync_Success() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	run := &models.SyncRun{ID: uuid.New(), Status: models.SyncStatusSucceeded}
	run.RecordsProcessed = 25
	s.syncService.EXPECT().Run(gomock.Any()).Return(run, nil)

	s.NoError(s.handler.TriggerSync(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.SyncResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal("success", response.Status)
	s.Equal(25, response.RecordsProcessed)
}

func (s *SyncHandlerTestSuite) TestTriggerSync_EmptyUpstream() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.syncService.EXPECT().Run(gomock.Any()).
		Return(&models.SyncRun{ID: uuid.New(), Status: models.SyncStatusSucceeded}, nil)

	s.NoError(s.handler.TriggerSync(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"success","records_processed":0}`, rec.Body.String())
}

func (s *SyncHandlerTestSuite) TestTriggerSync_FetchFailure() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	run := &models.SyncRun{ID: uuid.New(), Status: models.SyncStatusFailed}
	cause := fmt.Errorf("%w: %w", services.ErrFetchFailed, services.ErrUpstreamUnavailable)
	s.syncService.EXPECT().Run(gomock.Any()).Return(run, cause)

	s.NoError(s.handler.TriggerSync(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	response := s.decodeError(rec)
	s.Equal(string(apierrors.SystemUpstreamError), response.Error.Code)
	s.Equal([]string{"sync_run_id: " + run.ID.String()}, response.Error.Details)
}

func (s *SyncHandlerTestSuite) TestTriggerSync_StorageFailure() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	run := &models.SyncRun{ID: uuid.New(), Status: models.SyncStatusFailed}
	cause := fmt.Errorf("%w: insert customer CUST-001: constraint failed", services.ErrStorageFailed)
	s.syncService.EXPECT().Run(gomock.Any()).Return(run, cause)

	s.NoError(s.handler.TriggerSync(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	response := s.decodeError(rec)
	s.Equal(string(apierrors.SystemDatabaseError), response.Error.Code)
	s.NotContains(rec.Body.String(), "constraint failed")
}

func (s *SyncHandlerTestSuite) TestTriggerSync_RunNotRecorded() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.syncService.EXPECT().Run(gomock.Any()).
		Return(nil, fmt.Errorf("%w: failed to record sync run: database is locked", services.ErrStorageFailed))

	s.NoError(s.handler.TriggerSync(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	response := s.decodeError(rec)
	s.Equal(string(apierrors.SystemDatabaseError), response.Error.Code)
	s.Empty(response.Error.Details)
}

func (s *SyncHandlerTestSuite) TestListSyncRuns_DefaultLimit() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	now := time.Now().UTC()
	runs := []models.SyncRun{
		{ID: uuid.New(), Status: models.SyncStatusSucceeded, StartedAt: now},
		{ID: uuid.New(), Status: models.SyncStatusFailed, StartedAt: now.Add(-time.Hour)},
	}
	s.syncService.EXPECT().ListRuns(gomock.Any(), defaultSyncRunsLimit).Return(runs, nil)

	s.NoError(s.handler.ListSyncRuns(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListSyncRunsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Require().Len(response.Data, 2)
	s.Equal(runs[0].ID, response.Data[0].ID)
}

func (s *SyncHandlerTestSuite) TestListSyncRuns_LimitBounds() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs?limit=0", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	// limit=0 binds to the zero value and falls back to the default
	s.syncService.EXPECT().ListRuns(gomock.Any(), defaultSyncRunsLimit).Return(nil, nil)

	s.NoError(s.handler.ListSyncRuns(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":[]}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs?limit=101", nil)
	rec = httptest.NewRecorder()
	c = s.e.NewContext(req, rec)

	s.NoError(s.handler.ListSyncRuns(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.ValidationGeneral), s.decodeError(rec).Error.Code)
}

func (s *SyncHandlerTestSuite) TestGetSyncRun_Found() {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.syncService.EXPECT().GetRun(gomock.Any(), id).
		Return(&models.SyncRun{ID: id, Status: models.SyncStatusSucceeded, RecordsProcessed: 3}, nil)

	s.NoError(s.handler.GetSyncRun(c))
	s.Equal(http.StatusOK, rec.Code)

	var run models.SyncRun
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &run))
	s.Equal(id, run.ID)
	s.Equal(3, run.RecordsProcessed)
}

func (s *SyncHandlerTestSuite) TestGetSyncRun_InvalidID() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	s.NoError(s.handler.GetSyncRun(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apierrors.SyncRunInvalidID), s.decodeError(rec).Error.Code)
}

func (s *SyncHandlerTestSuite) TestGetSyncRun_NotFound() {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.syncService.EXPECT().GetRun(gomock.Any(), id).Return(nil, services.ErrSyncRunNotFound)

	s.NoError(s.handler.GetSyncRun(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal(string(apierrors.SyncRunNotFound), s.decodeError(rec).Error.Code)
}

func (s *SyncHandlerTestSuite) TestGetSyncRun_StoreFailure() {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs/"+id.String(), nil)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	s.syncService.EXPECT().GetRun(gomock.Any(), id).Return(nil, errors.New("no such table: sync_runs"))

	s.NoError(s.handler.GetSyncRun(c))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(string(apierrors.SystemDatabaseError), s.decodeError(rec).Error.Code)
}
