package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

const (
	fichaID     = "11111111-1111-4111-8111-111111111111"
	programaID  = "22222222-2222-4222-8222-222222222222"
	instructorA = "33333333-3333-4333-8333-333333333333"
	instructorB = "44444444-4444-4444-8444-444444444444"
)

type fichaStoreStub struct {
	ficha          *models.Ficha
	findErr        error
	trimestreSetTo int
}

func (s *fichaStoreStub) FindByID(ctx context.Context, id string) (*models.Ficha, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.ficha == nil || s.ficha.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.ficha
	return &copied, nil
}

func (s *fichaStoreStub) FindByCodigo(ctx context.Context, codigo string) (*models.Ficha, error) {
	if s.ficha == nil || s.ficha.Codigo != codigo {
		return nil, sql.ErrNoRows
	}
	copied := *s.ficha
	return &copied, nil
}

func (s *fichaStoreStub) UpdateTrimestre(ctx context.Context, exec sqlx.ExtContext, fichaID string, trimestre int) error {
	s.trimestreSetTo = trimestre
	return nil
}

type instructorStoreStub struct {
	roster  map[string]models.Instructor
	updates map[string]float64
}

func (s *instructorStoreStub) LockForUpdate(ctx context.Context, exec sqlx.ExtContext, ids []string) ([]models.Instructor, error) {
	var out []models.Instructor
	for _, id := range ids {
		if ins, ok := s.roster[id]; ok {
			out = append(out, ins)
		}
	}
	return out, nil
}

func (s *instructorStoreStub) UpdateHorasTrabajadas(ctx context.Context, exec sqlx.ExtContext, id string, horas float64) error {
	if s.updates == nil {
		s.updates = make(map[string]float64)
	}
	s.updates[id] = horas
	return nil
}

type curriculumReaderStub struct {
	competencias []models.Competencia
	resultados   []models.Resultado
	plan         []models.PlanRow
}

func (s *curriculumReaderStub) ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error) {
	return s.competencias, nil
}

func (s *curriculumReaderStub) ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error) {
	return s.resultados, nil
}

func (s *curriculumReaderStub) PlanRowsByFicha(ctx context.Context, fichaID string, trimestre int) ([]models.PlanRow, error) {
	return s.plan, nil
}

type scheduleStoreStub struct {
	existing       *models.Horario
	committed      []models.Asignacion
	globalOverlap  bool
	createdHorario *models.Horario
	createdRows    []models.Asignacion
}

func (s *scheduleStoreStub) FindByFichaYearQuarter(ctx context.Context, fichaID string, anio, trimestre int) (*models.Horario, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleStoreStub) CreateHorario(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error {
	horario.ID = "horario-1"
	s.createdHorario = horario
	return nil
}

func (s *scheduleStoreStub) CreateAsignaciones(ctx context.Context, exec sqlx.ExtContext, asignaciones []models.Asignacion) error {
	s.createdRows = asignaciones
	return nil
}

func (s *scheduleStoreStub) ListAsignacionesByFichaInstructorDia(ctx context.Context, fichaID, instructorID, dia string) ([]models.Asignacion, error) {
	var out []models.Asignacion
	for _, a := range s.committed {
		if a.InstructorID == instructorID && a.Dia == dia {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *scheduleStoreStub) ExistsGlobalOverlap(ctx context.Context, instructorID, dia, desde, hasta, excludeFichaID string) (bool, error) {
	return s.globalOverlap, nil
}

func (s *scheduleStoreStub) ListHorarios(ctx context.Context) ([]models.HorarioDetail, error) {
	return nil, nil
}

func (s *scheduleStoreStub) ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error) {
	return nil, nil
}

func (s *scheduleStoreStub) ListAsignacionesUpToQuarter(ctx context.Context, fichaID string, trimestre int) ([]models.Asignacion, error) {
	return s.committed, nil
}

func (s *scheduleStoreStub) ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error) {
	return nil, nil
}

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (*txProviderMock, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type metricsStub struct {
	accepted int
	rejected map[string]int
}

func (m *metricsStub) ScheduleAccepted() { m.accepted++ }

func (m *metricsStub) ScheduleRejected(reason string) {
	if m.rejected == nil {
		m.rejected = make(map[string]int)
	}
	m.rejected[reason]++
}

type scheduleFixture struct {
	service     *ScheduleService
	fichas      *fichaStoreStub
	instructors *instructorStoreStub
	schedules   *scheduleStoreStub
	metrics     *metricsStub
	mock        sqlmock.Sqlmock
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	return newScheduleFixtureCfg(t, ScheduleConfig{WeeksPerQuarter: 12, MaxQuarter: 7})
}

func newScheduleFixtureCfg(t *testing.T, cfg ScheduleConfig) *scheduleFixture {
	fichas := &fichaStoreStub{ficha: &models.Ficha{ID: fichaID, Codigo: "2558104", ProgramaID: programaID, Trimestre: 3, EnLectiva: true}}
	instructors := &instructorStoreStub{roster: map[string]models.Instructor{
		instructorA: {ID: instructorA, NombreCompleto: "Laura Pineda", HorasTrabajadas: 10, HorasMaximas: 100},
		instructorB: {ID: instructorB, NombreCompleto: "Carlos Gomez", HorasTrabajadas: 0, HorasMaximas: 100},
	}}
	curriculum := &curriculumReaderStub{
		competencias: []models.Competencia{{ID: "c1", ProgramaID: programaID, Nombre: "Salud Ocupacional"}},
		resultados:   []models.Resultado{{ID: "r1", CompetenciaID: "c1", Descripcion: "Identifica riesgos laborales"}},
		plan: []models.PlanRow{
			{ResultadoID: "r1", CompetenciaID: "c1", Resultado: "IDENTIFICA RIESGOS LABORALES", Competencia: "SALUD OCUPACIONAL", Trimestre: 3, Horas: 40},
		},
	}
	schedules := &scheduleStoreStub{}
	tx, mock := newTxProviderMock(t)
	metrics := &metricsStub{}

	service := NewScheduleService(fichas, instructors, curriculum, schedules, tx, nil, metrics, nil, nil, cfg)
	return &scheduleFixture{service: service, fichas: fichas, instructors: instructors, schedules: schedules, metrics: metrics, mock: mock}
}

func validRequest() dto.SaveScheduleRequest {
	return dto.SaveScheduleRequest{
		FichaID:   fichaID,
		Anio:      2026,
		Trimestre: 3,
		Asignaciones: []dto.AssignmentRequest{
			{InstructorID: instructorA, Dia: "Lunes", HoraDesde: "08:00", HoraHasta: "10:00",
				Competencia: "Salud Ocupacional", Resultado: "Identifica riesgos laborales"},
		},
	}
}

func TestSaveScheduleCommitsBatch(t *testing.T) {
	f := newScheduleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "horario-1", resp.HorarioID)
	assert.Equal(t, 3, resp.Trimestre)
	assert.Equal(t, 3, resp.TrimestreSiguiente)
	assert.Equal(t, 0, f.fichas.trimestreSetTo, "saving the current quarter leaves the ficha in place")
	assert.Equal(t, 1, resp.Asignaciones)
	assert.Equal(t, 1, f.metrics.accepted)

	// 2h over 12 weeks = 24 hours on top of the current 10
	assert.Equal(t, 34.0, f.instructors.updates[instructorA])

	require.Len(t, f.schedules.createdRows, 1)
	row := f.schedules.createdRows[0]
	assert.Equal(t, "LUNES", row.Dia)
	require.NotNil(t, row.ResultadoID)
	assert.Equal(t, "r1", *row.ResultadoID)
	require.NotNil(t, row.CompetenciaID)
	assert.Equal(t, "c1", *row.CompetenciaID)

	// 40 planned minus 24 programmed leaves one pending obligation
	assert.Equal(t, 1, resp.Pendientes)
	assert.Contains(t, string(f.schedules.createdHorario.Pendientes), `"horasFaltantes":16`)
}

func TestSaveScheduleRejectsQuotaOverrun(t *testing.T) {
	f := newScheduleFixture(t)
	f.instructors.roster[instructorA] = models.Instructor{
		ID: instructorA, NombreCompleto: "Laura Pineda", HorasTrabajadas: 38, HorasMaximas: 40,
	}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrQuotaExceeded.Code, appErrors.FromError(err).Code)
	assert.Nil(t, f.schedules.createdHorario, "nothing may be written on rejection")
	assert.Empty(t, f.instructors.updates)
	assert.Equal(t, 1, f.metrics.rejected["quota"])
}

func TestSaveScheduleRejectsBatchOverlap(t *testing.T) {
	f := newScheduleFixture(t)
	req := validRequest()
	req.Asignaciones = append(req.Asignaciones, dto.AssignmentRequest{
		InstructorID: instructorA, Dia: "LUNES", HoraDesde: "09:00", HoraHasta: "11:00",
	})

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, f.metrics.rejected["batch_conflict"])
}

func TestSaveScheduleAllowsBackToBackRanges(t *testing.T) {
	f := newScheduleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := validRequest()
	req.Asignaciones = append(req.Asignaciones, dto.AssignmentRequest{
		InstructorID: instructorA, Dia: "LUNES", HoraDesde: "10:00", HoraHasta: "12:00",
		Competencia: "Salud Ocupacional", Resultado: "Identifica riesgos laborales",
	})

	resp, err := f.service.SaveSchedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Asignaciones)
}

func TestSaveScheduleRejectsCommittedConflict(t *testing.T) {
	f := newScheduleFixture(t)
	f.schedules.committed = []models.Asignacion{
		{InstructorID: instructorA, Dia: "LUNES", HoraDesde: "09:00", HoraHasta: "11:00"},
	}

	_, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, f.metrics.rejected["committed_conflict"])
}

func TestSaveScheduleCrossFichaEnforcedWhenEnabled(t *testing.T) {
	f := newScheduleFixtureCfg(t, ScheduleConfig{WeeksPerQuarter: 12, MaxQuarter: 7, CrossFichaConflicts: true})
	f.schedules.globalOverlap = true

	_, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, f.schedules.createdHorario, "nothing may be written on rejection")
	assert.Equal(t, 1, f.metrics.rejected["cross_ficha_conflict"])
}

func TestSaveScheduleCrossFichaAdvisoryByDefault(t *testing.T) {
	f := newScheduleFixture(t)
	f.schedules.globalOverlap = true
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.NoError(t, err, "an overlap in another ficha stays advisory unless enforcement is on")
	assert.Equal(t, 1, resp.Asignaciones)
}

func TestSaveScheduleByFichaCodigo(t *testing.T) {
	f := newScheduleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := validRequest()
	req.FichaID = ""
	req.FichaCodigo = "2558104"

	resp, err := f.service.SaveSchedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fichaID, resp.FichaID)
}

func TestSaveScheduleUnknownFichaCodigo(t *testing.T) {
	f := newScheduleFixture(t)

	req := validRequest()
	req.FichaID = ""
	req.FichaCodigo = "0000000"

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSaveScheduleAdvancesToNextQuarter(t *testing.T) {
	f := newScheduleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := validRequest()
	req.Trimestre = 4

	resp, err := f.service.SaveSchedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.TrimestreSiguiente)
	assert.Equal(t, 4, f.fichas.trimestreSetTo)
}

func TestSaveScheduleRejectsQuarterJump(t *testing.T) {
	f := newScheduleFixture(t)
	f.fichas.ficha.Trimestre = 2

	req := validRequest()
	req.Trimestre = 4

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrQuarterState.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, f.metrics.rejected["quarter_state"])
}

func TestSaveScheduleRejectsDuplicateQuarter(t *testing.T) {
	f := newScheduleFixture(t)
	f.schedules.existing = &models.Horario{ID: "existing", FichaID: fichaID, Anio: 2026, Trimestre: 3}

	_, err := f.service.SaveSchedule(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleExists.Code, appErrors.FromError(err).Code)
}

func TestSaveScheduleTerminalQuarterRejected(t *testing.T) {
	f := newScheduleFixture(t)
	f.fichas.ficha.Trimestre = 7

	req := validRequest()
	req.Trimestre = 7

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrQuarterState.Code, appErrors.FromError(err).Code)
	assert.Nil(t, f.schedules.createdHorario)
	assert.Equal(t, 0, f.fichas.trimestreSetTo)
}

func TestSaveScheduleRejectsDegenerateRange(t *testing.T) {
	f := newScheduleFixture(t)
	req := validRequest()
	req.Asignaciones[0].HoraDesde = "10:00"
	req.Asignaciones[0].HoraHasta = "10:00"

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSaveScheduleUnknownFicha(t *testing.T) {
	f := newScheduleFixture(t)
	req := validRequest()
	req.FichaID = "99999999-9999-4999-8999-999999999999"

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSaveScheduleUnresolvedTextsPersist(t *testing.T) {
	f := newScheduleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	req := validRequest()
	req.Asignaciones[0].Competencia = "Tema totalmente desconocido"
	req.Asignaciones[0].Resultado = "Algo que nadie planeo nunca jamas"

	_, err := f.service.SaveSchedule(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.schedules.createdRows, 1)
	row := f.schedules.createdRows[0]
	assert.Nil(t, row.ResultadoID)
	assert.Nil(t, row.CompetenciaID)
	assert.Equal(t, "Tema totalmente desconocido", row.CompetenciaTexto)
	assert.Equal(t, "Algo que nadie planeo nunca jamas", row.ResultadoTexto)
}

func TestCheckConflictAdvisory(t *testing.T) {
	f := newScheduleFixture(t)
	f.schedules.globalOverlap = true

	resp, err := f.service.CheckConflict(context.Background(), dto.ConflictCheckRequest{
		InstructorID: instructorA, Dia: "martes", HoraDesde: "08:00", HoraHasta: "10:00", ExcludeFichaID: fichaID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Conflict)
}

func TestCheckConflictRejectsBadRange(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.CheckConflict(context.Background(), dto.ConflictCheckRequest{
		InstructorID: instructorA, Dia: "martes", HoraDesde: "10:00", HoraHasta: "08:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
