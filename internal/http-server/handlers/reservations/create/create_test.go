package create

import (
	"reservas-service/api"
	"reservas-service/pkg/response"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCreator struct {
	reservation *api.ReservationResponse
	err         error
	gotBy       string
}

func (s *stubCreator) CreateReservation(_ context.Context, _ *api.ReservationRequest, createdBy string) (*api.ReservationResponse, error) {
	s.gotBy = createdBy
	return s.reservation, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, creator *stubCreator, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(payload))
	req.Header.Set("X-User", "silva@school")
	rec := httptest.NewRecorder()

	New(discardLogger(), creator)(rec, req)

	return rec
}

func validBody() api.ReservationRequest {
	return api.ReservationRequest{
		ResourceType:       "SCIENCE_LAB",
		ResourceInstanceID: "SCIENCE_LAB",
		Date:               "2026-03-09",
		Shift:              "MORNING",
		Periods:            []string{"1st", "2nd"},
		Requester:          "T. Silva",
		GroupLabel:         "9th Grade A",
	}
}

func TestCreateHandler_Created(t *testing.T) {
	creator := &stubCreator{
		reservation: &api.ReservationResponse{
			ID:           "res-1",
			ResourceType: "SCIENCE_LAB",
			CreatedAt:    time.Now(),
		},
	}

	rec := doRequest(t, creator, validBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "silva@school", creator.gotBy)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Reservation)
	assert.Equal(t, "res-1", resp.Reservation.ID)
}

func TestCreateHandler_Conflict(t *testing.T) {
	creator := &stubCreator{
		err: fmt.Errorf("service.CreateReservation: %w", &response.ConflictError{
			Requester:  "T. Silva",
			GroupLabel: "9th Grade A",
			Periods:    []string{"2nd"},
		}),
	}

	rec := doRequest(t, creator, validBody())

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(response.CONFLICT), resp.Code)
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, "T. Silva", resp.Conflict.Requester)
	assert.Equal(t, []string{"2nd"}, resp.Conflict.OverlappingPeriods)
}

func TestCreateHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"unknown resource", response.ErrUnknownResource, http.StatusNotFound, response.UNKNOWN_RESOURCE},
		{"no periods", response.ErrNoPeriods, http.StatusBadRequest, response.NO_PERIODS},
		{"missing field", response.ErrMissingField, http.StatusBadRequest, response.MISSING_FIELD},
		{"malformed input", response.ErrBadRequest, http.StatusBadRequest, response.BAD_REQUEST},
		{"storage failure", fmt.Errorf("boom"), http.StatusInternalServerError, response.FAILED_REQUEST},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, &stubCreator{err: fmt.Errorf("op: %w", tc.err)}, validBody())

			assert.Equal(t, tc.status, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tc.code), resp.Code)
		})
	}
}

func TestCreateHandler_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	New(discardLogger(), &stubCreator{})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
