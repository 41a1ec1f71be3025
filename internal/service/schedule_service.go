package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/senaplan/horarios-api/internal/dto"
	"github.com/senaplan/horarios-api/internal/models"
	"github.com/senaplan/horarios-api/internal/resolver"
	"github.com/senaplan/horarios-api/internal/scheduling"
	appErrors "github.com/senaplan/horarios-api/pkg/errors"
)

type scheduleFichaReader interface {
	FindByID(ctx context.Context, id string) (*models.Ficha, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Ficha, error)
	UpdateTrimestre(ctx context.Context, exec sqlx.ExtContext, fichaID string, trimestre int) error
}

type scheduleInstructorStore interface {
	LockForUpdate(ctx context.Context, exec sqlx.ExtContext, ids []string) ([]models.Instructor, error)
	UpdateHorasTrabajadas(ctx context.Context, exec sqlx.ExtContext, id string, horas float64) error
}

type scheduleCurriculumReader interface {
	ListCompetencias(ctx context.Context, programaID string) ([]models.Competencia, error)
	ListResultados(ctx context.Context, programaID string) ([]models.Resultado, error)
	PlanRowsByFicha(ctx context.Context, fichaID string, trimestre int) ([]models.PlanRow, error)
}

type scheduleStore interface {
	FindByFichaYearQuarter(ctx context.Context, fichaID string, anio, trimestre int) (*models.Horario, error)
	CreateHorario(ctx context.Context, exec sqlx.ExtContext, horario *models.Horario) error
	CreateAsignaciones(ctx context.Context, exec sqlx.ExtContext, asignaciones []models.Asignacion) error
	ListAsignacionesByFichaInstructorDia(ctx context.Context, fichaID, instructorID, dia string) ([]models.Asignacion, error)
	ExistsGlobalOverlap(ctx context.Context, instructorID, dia, desde, hasta, excludeFichaID string) (bool, error)
	ListHorarios(ctx context.Context) ([]models.HorarioDetail, error)
	ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error)
	ListAsignacionesUpToQuarter(ctx context.Context, fichaID string, trimestre int) ([]models.Asignacion, error)
	ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type scheduleMetrics interface {
	ScheduleAccepted()
	ScheduleRejected(reason string)
}

// ScheduleConfig tunes the batch save pipeline. CrossFichaConflicts upgrades
// the advisory cross-ficha overlap query into a commit-time rejection.
type ScheduleConfig struct {
	WeeksPerQuarter     int
	MaxQuarter          int
	CrossFichaConflicts bool
}

// ScheduleService runs the batch schedule save pipeline and the committed
// schedule queries.
type ScheduleService struct {
	fichas      scheduleFichaReader
	instructors scheduleInstructorStore
	curriculum  scheduleCurriculumReader
	schedules   scheduleStore
	tx          txProvider
	cache       cacheInvalidator
	metrics     scheduleMetrics
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         ScheduleConfig
	saves       *keyedMutex
}

// NewScheduleService wires schedule dependencies.
func NewScheduleService(
	fichas scheduleFichaReader,
	instructors scheduleInstructorStore,
	curriculum scheduleCurriculumReader,
	schedules scheduleStore,
	tx txProvider,
	cache cacheInvalidator,
	metrics scheduleMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeeksPerQuarter <= 0 {
		cfg.WeeksPerQuarter = 12
	}
	if cfg.MaxQuarter <= 0 {
		cfg.MaxQuarter = 7
	}
	return &ScheduleService{
		fichas:      fichas,
		instructors: instructors,
		curriculum:  curriculum,
		schedules:   schedules,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		saves:       newKeyedMutex(),
	}
}

type parsedAssignment struct {
	req   dto.AssignmentRequest
	dia   string
	desde int
	hasta int
}

// SaveSchedule validates and commits a whole schedule batch atomically: all
// assignments land together with the quarter advance and the worked-hour
// updates, or nothing is written.
func (s *ScheduleService) SaveSchedule(ctx context.Context, req dto.SaveScheduleRequest) (*dto.SaveScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject("validation", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
	}

	parsed, err := s.parseAssignments(req.Asignaciones)
	if err != nil {
		return nil, s.reject("time_range", err)
	}

	ficha, err := s.loadFicha(ctx, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject("ficha_not_found", appErrors.Clone(appErrors.ErrNotFound, "ficha not found"))
		}
		return nil, fmt.Errorf("load ficha: %w", err)
	}

	unlock := s.saves.Lock(fmt.Sprintf("%s:%d:%d", ficha.ID, req.Anio, req.Trimestre))
	defer unlock()

	// quarter progression: a schedule may target the ficha's current quarter
	// or the next one; quarter MaxQuarter is terminal.
	if ficha.Trimestre >= s.cfg.MaxQuarter {
		return nil, s.reject("quarter_state", appErrors.Clone(appErrors.ErrQuarterState,
			fmt.Sprintf("ficha reached terminal quarter %d, no further schedules", s.cfg.MaxQuarter)))
	}
	if req.Trimestre != ficha.Trimestre && req.Trimestre != ficha.Trimestre+1 {
		return nil, s.reject("quarter_state", appErrors.Clone(appErrors.ErrQuarterState,
			fmt.Sprintf("ficha is in quarter %d, cannot save quarter %d", ficha.Trimestre, req.Trimestre)))
	}

	if _, err := s.schedules.FindByFichaYearQuarter(ctx, ficha.ID, req.Anio, req.Trimestre); err == nil {
		return nil, s.reject("duplicate", appErrors.ErrScheduleExists)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing horario: %w", err)
	}

	slots := make([]scheduling.Slot, len(parsed))
	for i, p := range parsed {
		slots[i] = scheduling.Slot{InstructorID: p.req.InstructorID, Dia: p.dia, Desde: p.desde, Hasta: p.hasta, Index: i}
	}
	if conflict := scheduling.FindBatchConflict(slots); conflict != nil {
		return nil, s.reject("batch_conflict", appErrors.Clone(appErrors.ErrScheduleConflict,
			fmt.Sprintf("instructor %s has overlapping ranges on %s within the batch", conflict.InstructorID, conflict.Dia)))
	}

	if err := s.checkCommittedConflicts(ctx, ficha.ID, parsed); err != nil {
		return nil, s.reject("committed_conflict", err)
	}
	if s.cfg.CrossFichaConflicts {
		if err := s.checkCrossFichaConflicts(ctx, ficha.ID, parsed); err != nil {
			return nil, s.reject("cross_ficha_conflict", err)
		}
	}

	catalog, err := s.loadCatalog(ctx, ficha.ProgramaID)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin schedule tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.applyQuotas(ctx, tx, parsed); err != nil {
		return nil, s.reject("quota", err)
	}

	horario := &models.Horario{
		FichaID:           ficha.ID,
		Anio:              req.Anio,
		Trimestre:         req.Trimestre,
		InstructorLiderID: req.InstructorLider,
	}
	asignaciones := s.resolveAssignments(horario, parsed, catalog)

	snapshot, err := s.computeSnapshot(ctx, ficha.ID, req.Anio, req.Trimestre, asignaciones)
	if err != nil {
		return nil, err
	}
	horario.Pendientes = snapshot

	if err := s.schedules.CreateHorario(ctx, tx, horario); err != nil {
		return nil, err
	}
	for i := range asignaciones {
		asignaciones[i].HorarioID = horario.ID
	}
	if err := s.schedules.CreateAsignaciones(ctx, tx, asignaciones); err != nil {
		return nil, err
	}

	next := req.Trimestre
	if next > s.cfg.MaxQuarter {
		next = s.cfg.MaxQuarter
	}
	if next != ficha.Trimestre {
		if err := s.fichas.UpdateTrimestre(ctx, tx, ficha.ID, next); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schedule tx: %w", err)
	}

	s.invalidatePending(ctx, ficha.ID)
	if s.metrics != nil {
		s.metrics.ScheduleAccepted()
	}
	s.logger.Info("schedule committed",
		zap.String("ficha_id", ficha.ID),
		zap.Int("anio", req.Anio),
		zap.Int("trimestre", req.Trimestre),
		zap.Int("asignaciones", len(asignaciones)))

	var pendientes []models.PendingObligation
	_ = json.Unmarshal(snapshot, &pendientes)

	return &dto.SaveScheduleResponse{
		HorarioID:          horario.ID,
		FichaID:            ficha.ID,
		Anio:               req.Anio,
		Trimestre:          req.Trimestre,
		TrimestreSiguiente: next,
		Asignaciones:       len(asignaciones),
		Pendientes:         len(pendientes),
	}, nil
}

// loadFicha accepts either addressing mode of the save payload: the ficha's
// id or its SENA code.
func (s *ScheduleService) loadFicha(ctx context.Context, req dto.SaveScheduleRequest) (*models.Ficha, error) {
	if req.FichaID != "" {
		return s.fichas.FindByID(ctx, req.FichaID)
	}
	return s.fichas.FindByCodigo(ctx, req.FichaCodigo)
}

func (s *ScheduleService) parseAssignments(rows []dto.AssignmentRequest) ([]parsedAssignment, error) {
	parsed := make([]parsedAssignment, 0, len(rows))
	for i, row := range rows {
		desde, err := scheduling.ParseClock(row.HoraDesde)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: %v", i+1, err))
		}
		hasta, err := scheduling.ParseClock(row.HoraHasta)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: %v", i+1, err))
		}
		if desde >= hasta {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("row %d: start %s must precede end %s", i+1, row.HoraDesde, row.HoraHasta))
		}
		dia := normalizeDia(row.Dia)
		if dia == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: missing day", i+1))
		}
		parsed = append(parsed, parsedAssignment{req: row, dia: dia, desde: desde, hasta: hasta})
	}
	return parsed, nil
}

func (s *ScheduleService) checkCommittedConflicts(ctx context.Context, fichaID string, parsed []parsedAssignment) error {
	type key struct{ instructorID, dia string }
	seen := make(map[key][]parsedAssignment)
	for _, p := range parsed {
		k := key{p.req.InstructorID, p.dia}
		seen[k] = append(seen[k], p)
	}

	for k, group := range seen {
		committed, err := s.schedules.ListAsignacionesByFichaInstructorDia(ctx, fichaID, k.instructorID, k.dia)
		if err != nil {
			return err
		}
		for _, c := range committed {
			cDesde, err := scheduling.ParseClock(c.HoraDesde)
			if err != nil {
				continue
			}
			cHasta, err := scheduling.ParseClock(c.HoraHasta)
			if err != nil {
				continue
			}
			for _, p := range group {
				if scheduling.Overlaps(p.desde, p.hasta, cDesde, cHasta) {
					return appErrors.Clone(appErrors.ErrScheduleConflict,
						fmt.Sprintf("instructor %s already has %s-%s on %s", k.instructorID, c.HoraDesde, c.HoraHasta, k.dia))
				}
			}
		}
	}
	return nil
}

// checkCrossFichaConflicts extends the commit-time check across every ficha:
// an instructor already booked elsewhere in the same day/range blocks the
// whole batch. Enabled by configuration; the advisory query stays available
// either way.
func (s *ScheduleService) checkCrossFichaConflicts(ctx context.Context, fichaID string, parsed []parsedAssignment) error {
	for _, p := range parsed {
		exists, err := s.schedules.ExistsGlobalOverlap(ctx, p.req.InstructorID, p.dia,
			scheduling.FormatClock(p.desde), scheduling.FormatClock(p.hasta), fichaID)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.Clone(appErrors.ErrScheduleConflict,
				fmt.Sprintf("instructor %s is already booked %s-%s on %s in another ficha",
					p.req.InstructorID, scheduling.FormatClock(p.desde), scheduling.FormatClock(p.hasta), p.dia))
		}
	}
	return nil
}

// applyQuotas locks the involved instructor rows, sums the whole batch per
// instructor, validates each total once against the ceiling, then writes each
// new total once.
func (s *ScheduleService) applyQuotas(ctx context.Context, tx *sqlx.Tx, parsed []parsedAssignment) error {
	ids := make([]string, 0, len(parsed))
	index := make(map[string]*scheduling.QuotaUsage)
	for _, p := range parsed {
		if _, ok := index[p.req.InstructorID]; !ok {
			ids = append(ids, p.req.InstructorID)
			index[p.req.InstructorID] = &scheduling.QuotaUsage{InstructorID: p.req.InstructorID}
		}
	}

	locked, err := s.instructors.LockForUpdate(ctx, tx, ids)
	if err != nil {
		return fmt.Errorf("lock instructors: %w", err)
	}
	if len(locked) != len(ids) {
		return appErrors.Clone(appErrors.ErrNotFound, "one or more instructors do not exist")
	}
	for _, ins := range locked {
		usage := index[ins.ID]
		usage.Nombre = ins.NombreCompleto
		usage.Current = ins.HorasTrabajadas
		usage.Max = ins.HorasMaximas
	}

	for _, p := range parsed {
		index[p.req.InstructorID].Add(scheduling.QuarterHours(p.desde, p.hasta, s.cfg.WeeksPerQuarter))
	}

	for _, id := range ids {
		usage := index[id]
		if usage.Exceeded() {
			return appErrors.Clone(appErrors.ErrQuotaExceeded,
				fmt.Sprintf("instructor %s would reach %.2f of %.2f allowed hours", usage.Nombre, usage.NewTotal(), usage.Max))
		}
	}

	for _, id := range ids {
		usage := index[id]
		if err := s.instructors.UpdateHorasTrabajadas(ctx, tx, id, usage.NewTotal()); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScheduleService) loadCatalog(ctx context.Context, programaID string) (*resolver.Catalog, error) {
	competencias, err := s.curriculum.ListCompetencias(ctx, programaID)
	if err != nil {
		return nil, err
	}
	resultados, err := s.curriculum.ListResultados(ctx, programaID)
	if err != nil {
		return nil, err
	}
	return resolver.NewCatalog(programaID, competencias, resultados), nil
}

// resolveAssignments maps each row's free-text labels to canonical ids. The
// free text always persists; ids stay null when resolution misses.
func (s *ScheduleService) resolveAssignments(horario *models.Horario, parsed []parsedAssignment, catalog *resolver.Catalog) []models.Asignacion {
	asignaciones := make([]models.Asignacion, len(parsed))
	for i, p := range parsed {
		a := models.Asignacion{
			FichaID:          horario.FichaID,
			InstructorID:     p.req.InstructorID,
			Dia:              p.dia,
			HoraDesde:        scheduling.FormatClock(p.desde),
			HoraHasta:        scheduling.FormatClock(p.hasta),
			CompetenciaTexto: p.req.Competencia,
			ResultadoTexto:   p.req.Resultado,
		}
		if res := catalog.ResolveResultado(p.req.Competencia, p.req.Resultado); res != nil {
			resultadoID := res.ID
			competenciaID := res.CompetenciaID
			a.ResultadoID = &resultadoID
			a.CompetenciaID = &competenciaID
		} else if comp := catalog.ResolveCompetencia(p.req.Competencia); comp != nil {
			competenciaID := comp.ID
			a.CompetenciaID = &competenciaID
		}
		asignaciones[i] = a
	}
	return asignaciones
}

// computeSnapshot builds the pending-obligations snapshot for the quarter
// being committed, counting committed assignments up to that quarter plus the
// batch at hand.
func (s *ScheduleService) computeSnapshot(ctx context.Context, fichaID string, anio, trimestre int, batch []models.Asignacion) (types.JSONText, error) {
	plan, err := s.curriculum.PlanRowsByFicha(ctx, fichaID, trimestre)
	if err != nil {
		return nil, err
	}
	committed, err := s.schedules.ListAsignacionesUpToQuarter(ctx, fichaID, trimestre)
	if err != nil {
		return nil, err
	}

	ledger := buildLedger(plan, append(committed, batch...), s.cfg.WeeksPerQuarter)
	snapshot := pendingSnapshot(ledger, anio, trimestre)
	if len(snapshot) == 0 {
		return types.JSONText("[]"), nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal pending snapshot: %w", err)
	}
	return types.JSONText(payload), nil
}

// CheckConflict answers the advisory cross-ficha question: would this range
// collide with anything already committed outside the given ficha. Advisory
// only, it never blocks a save.
func (s *ScheduleService) CheckConflict(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict query")
	}
	desde, err := scheduling.ParseClock(req.HoraDesde)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	hasta, err := scheduling.ParseClock(req.HoraHasta)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if desde >= hasta {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must precede end")
	}

	exists, err := s.schedules.ExistsGlobalOverlap(ctx, req.InstructorID, normalizeDia(req.Dia),
		scheduling.FormatClock(desde), scheduling.FormatClock(hasta), req.ExcludeFichaID)
	if err != nil {
		return nil, err
	}
	return &dto.ConflictCheckResponse{Conflict: exists}, nil
}

// ListHorarios returns every committed schedule header.
func (s *ScheduleService) ListHorarios(ctx context.Context) ([]models.HorarioDetail, error) {
	return s.schedules.ListHorarios(ctx)
}

// ListHorariosByFicha returns a ficha's schedule history.
func (s *ScheduleService) ListHorariosByFicha(ctx context.Context, fichaID string) ([]models.HorarioDetail, error) {
	if _, err := s.fichas.FindByID(ctx, fichaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ficha not found")
		}
		return nil, err
	}
	return s.schedules.ListHorariosByFicha(ctx, fichaID)
}

// ListAsignacionesByInstructor returns an instructor's committed timetable.
func (s *ScheduleService) ListAsignacionesByInstructor(ctx context.Context, instructorID string) ([]models.AsignacionDetail, error) {
	return s.schedules.ListAsignacionesByInstructor(ctx, instructorID)
}

func (s *ScheduleService) invalidatePending(ctx context.Context, fichaID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("pending:%s:*", fichaID)); err != nil {
		s.logger.Warn("pending cache invalidation failed", zap.String("ficha_id", fichaID), zap.Error(err))
	}
}

func (s *ScheduleService) reject(reason string, err error) error {
	if s.metrics != nil {
		s.metrics.ScheduleRejected(reason)
	}
	return err
}
