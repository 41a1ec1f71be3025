package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type scheduleServiceMock struct {
	captured dto.SaveScheduleRequest
	saveErr  error
	conflict bool
}

func (m *scheduleServiceMock) SaveSchedule(ctx context.Context, req dto.SaveScheduleRequest) (*dto.SaveScheduleResponse, error) {
	m.captured = req
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &dto.SaveScheduleResponse{HorarioID: "h-1", FichaID: req.FichaID, Trimestre: req.Trimestre, TrimestreSiguiente: req.Trimestre}, nil
}

func (m *scheduleServiceMock) CheckConflict(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	return &dto.ConflictCheckResponse{Conflict: m.conflict}, nil
}

func (m *scheduleServiceMock) ListHorarios(ctx context.Context) ([]models.HorarioDetail, error) {
	return nil, nil
}

func (m *scheduleServiceMock) ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error) {
	return nil, nil
}

func (m *scheduleServiceMock) ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error) {
	return nil, nil
}

func TestScheduleSaveSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{}
	handler := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveScheduleRequest{
		FichaID:   "11111111-1111-4111-8111-111111111111",
		Anio:      2026,
		Trimestre: 3,
		Asignaciones: []dto.AssignmentRequest{
			{InstructorID: "33333333-3333-4333-8333-333333333333", Dia: "Lunes", HoraDesde: "08:00", HoraHasta: "10:00"},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Save(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 3, mockSvc.captured.Trimestre)
	require.Contains(t, w.Body.String(), `"trimestreSiguiente":3`)
}

func TestScheduleSaveMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{})

	req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewReader([]byte(`{"fichaId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Save(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleSaveConflictStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{saveErr: appErrors.ErrScheduleConflict}
	handler := NewScheduleHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveScheduleRequest{FichaID: "11111111-1111-4111-8111-111111111111"})
	req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Save(c)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "SCHEDULE_CONFLICT")
}

func TestConflictCheckQueryBinding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleServiceMock{conflict: true}
	handler := NewScheduleHandler(mockSvc)

	req, _ := http.NewRequest(http.MethodGet,
		"/schedules/conflict-check?instructorId=33333333-3333-4333-8333-333333333333&day=LUNES&from=08:00&to=10:00", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.CheckConflict(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"conflict":true`)
}
