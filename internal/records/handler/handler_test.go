package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"precinct/contracts/records"
	"precinct/internal/records/handler/mocks"
	"precinct/internal/records/models"
	"precinct/internal/records/service"
	dErrors "precinct/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	r := chi.NewRouter()
	New(s.mockService, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeError(rec *httptest.ResponseRecorder) records.ErrorResponse {
	var body records.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *HandlerSuite) TestListPassesQueryThrough() {
	s.mockService.EXPECT().List(gomock.Any(), "a1").Return([]*models.Record{
		{ID: "a1b2", Name: "Alice", Sex: models.SexFemale, NationalID: "N1"},
	}, nil)

	rec := s.do(http.MethodGet, "/getRecords?query=a1", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":[{"c_id":"a1b2","name":"Alice","sex":"Female","national_id":"N1"}]}`, rec.Body.String())
}

func (s *HandlerSuite) TestListEmptyIsArray() {
	s.mockService.EXPECT().List(gomock.Any(), "null").Return(nil, nil)

	rec := s.do(http.MethodGet, "/getRecords?query=null", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"data":[]}`, rec.Body.String())
}

func (s *HandlerSuite) TestListAbsentQuery() {
	s.mockService.EXPECT().List(gomock.Any(), "").Return([]*models.Record{}, nil)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/getRecords", "").Code)
}

func (s *HandlerSuite) TestListFailure() {
	s.mockService.EXPECT().List(gomock.Any(), "").
		Return(nil, dErrors.Wrap(errors.New("db down"), dErrors.CodeInternal, "failed to list records"))

	rec := s.do(http.MethodGet, "/getRecords", "")

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("internal_error", s.decodeError(rec).Code)
	s.NotContains(rec.Body.String(), "db down")
}

func (s *HandlerSuite) TestUpsertCreate() {
	s.mockService.EXPECT().Upsert(gomock.Any(), service.UpsertCommand{
		ID: "b1", Name: "Bob", Sex: "Male", NationalID: "", Create: true,
	}).Return(&models.Record{ID: "b1"}, models.OutcomeCreated, nil)

	rec := s.do(http.MethodPost, "/addRecord",
		`{"data":{"c_id":"b1","name":" Bob ","sex":"Male","national_id":""},"create":true}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":200}`, rec.Body.String())
}

func (s *HandlerSuite) TestUpsertUpdateWithoutCreateFlag() {
	s.mockService.EXPECT().Upsert(gomock.Any(), gomock.Cond(func(x any) bool {
		cmd, ok := x.(service.UpsertCommand)
		return ok && cmd.ID == "b1" && !cmd.Create
	})).Return(&models.Record{ID: "b1"}, models.OutcomeSkipped, nil)

	rec := s.do(http.MethodPost, "/addRecord", `{"data":{"c_id":"b1","name":"Bob"}}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestUpsertRejectsInvalidBodies() {
	cases := []struct {
		body    string
		message string
	}{
		{`not json`, "invalid request body"},
		{`{"data":{"c_id":"b1"},"create":true}`, "name is required"},
		{`{"data":{"c_id":"b1","name":"   "},"create":true}`, "name is required"},
		{`{"data":{"name":"Bob"},"create":true}`, "c_id is required"},
		{`{"data":{"c_id":"b1","name":"Bob","sex":"Unknown"},"create":true}`, "sex must be one of [Male Female]"},
	}
	for _, tc := range cases {
		rec := s.do(http.MethodPost, "/addRecord", tc.body)
		s.Equal(http.StatusBadRequest, rec.Code, tc.body)
		s.Equal(tc.message, s.decodeError(rec).Error, tc.body)
	}
}

func (s *HandlerSuite) TestUpsertConflict() {
	s.mockService.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		Return(nil, models.Outcome(""), dErrors.New(dErrors.CodeConflict, "Record with this c_id already exists"))

	rec := s.do(http.MethodPost, "/addRecord", `{"data":{"c_id":"b1","name":"Bob"},"create":true}`)

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("Record with this c_id already exists", s.decodeError(rec).Error)
}

func (s *HandlerSuite) TestDelete() {
	s.mockService.EXPECT().Delete(gomock.Any(), "b1").Return(nil)

	rec := s.do(http.MethodDelete, "/deleteRecord?c_id=b1", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":200}`, rec.Body.String())
}

func (s *HandlerSuite) TestDeleteMissingParam() {
	rec := s.do(http.MethodDelete, "/deleteRecord", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("c_id is required", s.decodeError(rec).Error)
}
