package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/middleware"
	"github.com/2beens/workoutplanner/internal/persistence"
	"github.com/2beens/workoutplanner/internal/stats"
	"github.com/2beens/workoutplanner/internal/store"
	"github.com/2beens/workoutplanner/internal/telemetry/metrics"
	"github.com/2beens/workoutplanner/internal/telemetry/tracing"
	"github.com/2beens/workoutplanner/internal/workout"
	"github.com/2beens/workoutplanner/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte           = 1024 * 1024
	statsCacheExpire   = 60 * 60 // seconds
	defaultTrendDays   = 30
	maxImportBodyBytes = 16 * megabyte
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=planner_test

type plannerService interface {
	Snapshot() (store.State, uint64, error)
	Now() time.Time
	DispatchRaw(ctx context.Context, raw engine.RawAction) (Result, error)
	DeleteExercise(ctx context.Context, exerciseID string) (Result, error)
	DeleteRoutine(ctx context.Context, routineID string) (Result, error)
	PlaceRoutine(ctx context.Context, dateISO, routineID string) (Result, error)
	ClearDate(ctx context.Context, dateISO string) (Result, error)
	MoveItem(ctx context.Context, from, to store.ItemPath) (Result, error)
	Export(format persistence.Format) ([]byte, error)
	Import(ctx context.Context, payload []byte, format persistence.Format) (Result, error)
}

type Handler struct {
	service        plannerService
	metricsManager *metrics.Manager
	statsCache     *freecache.Cache
}

func NewHandler(service plannerService, metricsManager *metrics.Manager, statsCacheSizeMB int) *Handler {
	if statsCacheSizeMB <= 0 {
		statsCacheSizeMB = 8
	}
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
		statsCache:     freecache.NewCache(statsCacheSizeMB * megabyte),
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	mutationsAllowedPerMin int,
) {
	mainRouter.HandleFunc("/state", handler.HandleGetState).Methods("GET", "OPTIONS").Name("get-state")
	mainRouter.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export")
	mainRouter.HandleFunc("/calendar/week", handler.HandleCalendarWeek).Methods("GET", "OPTIONS").Name("calendar-week")

	statsRouter := mainRouter.PathPrefix("/stats").Subrouter()
	statsRouter.HandleFunc("/exercises/{id}/best", handler.HandlePersonalBest).Methods("GET", "OPTIONS").Name("stats-best")
	statsRouter.HandleFunc("/exercises/{id}/trend", handler.HandleProgressTrend).Methods("GET", "OPTIONS").Name("stats-trend")
	statsRouter.HandleFunc("/exercises/{id}/last", handler.HandleLastSession).Methods("GET", "OPTIONS").Name("stats-last")
	statsRouter.HandleFunc("/exercises/{id}/usage", handler.HandleExerciseUsage).Methods("GET", "OPTIONS").Name("stats-usage")
	statsRouter.HandleFunc("/week/{weekStart}", handler.HandleWeeklyStats).Methods("GET", "OPTIONS").Name("stats-week")
	statsRouter.HandleFunc("/completion", handler.HandleCompletion).Methods("GET", "OPTIONS").Name("stats-completion")
	statsRouter.HandleFunc("/summary/{date}", handler.HandleWorkoutSummary).Methods("GET", "OPTIONS").Name("stats-summary")

	mutations := mainRouter.Methods("POST", "DELETE", "OPTIONS").Subrouter()
	mutations.HandleFunc("/actions", handler.HandleDispatch).Methods("POST", "OPTIONS").Name("dispatch")
	mutations.HandleFunc("/exercises/{id}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	mutations.HandleFunc("/routines/{id}", handler.HandleDeleteRoutine).Methods("DELETE", "OPTIONS").Name("delete-routine")
	mutations.HandleFunc("/plan/move", handler.HandleMoveItem).Methods("POST", "OPTIONS").Name("move-item")
	mutations.HandleFunc("/plan/{date}/routines/{id}", handler.HandlePlaceRoutine).Methods("POST", "OPTIONS").Name("place-routine")
	mutations.HandleFunc("/plan/{date}", handler.HandleClearDate).Methods("DELETE", "OPTIONS").Name("clear-date")
	mutations.HandleFunc("/import", handler.HandleImport).Methods("POST", "OPTIONS").Name("import")

	if rateLimiter != nil && mutationsAllowedPerMin > 0 {
		mutations.Use(middleware.RateLimit(rateLimiter, "planner-mutations", mutationsAllowedPerMin, handler.metricsManager))
	}
}

type stateResponse struct {
	Revision uint64      `json:"revision"`
	State    store.State `json:"state"`
}

type dispatchResponse struct {
	Revision uint64      `json:"revision"`
	Applied  string      `json:"applied"`
	Rejected *string     `json:"rejected"`
	State    store.State `json:"state"`
}

type moveRequest struct {
	From store.ItemPath `json:"from"`
	To   store.ItemPath `json:"to"`
}

func (handler *Handler) HandleGetState(w http.ResponseWriter, _ *http.Request) {
	state, revision, err := handler.service.Snapshot()
	if err != nil {
		handler.writeServiceError(w, "get state", err)
		return
	}
	handler.writeJSON(w, http.StatusOK, stateResponse{Revision: revision, State: state})
}

func (handler *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	var raw engine.RawAction
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		log.Debugf("dispatch: decode action: %s", err)
		http.Error(w, "invalid action body", http.StatusBadRequest)
		return
	}

	res, err := handler.service.DispatchRaw(r.Context(), raw)
	if err != nil {
		handler.writeServiceError(w, "dispatch", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	res, err := handler.service.DeleteExercise(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handler.writeServiceError(w, "delete exercise", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	res, err := handler.service.DeleteRoutine(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handler.writeServiceError(w, "delete routine", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandlePlaceRoutine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := handler.service.PlaceRoutine(r.Context(), vars["date"], vars["id"])
	if err != nil {
		handler.writeServiceError(w, "place routine", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandleClearDate(w http.ResponseWriter, r *http.Request) {
	res, err := handler.service.ClearDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		handler.writeServiceError(w, "clear date", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandleMoveItem(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid move body", http.StatusBadRequest)
		return
	}
	res, err := handler.service.MoveItem(r.Context(), req.From, req.To)
	if err != nil {
		handler.writeServiceError(w, "move item", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := persistence.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := handler.service.Export(format)
	if err != nil {
		handler.writeServiceError(w, "export", err)
		return
	}
	pkg.WriteAttachment(w, format.ContentType(), "workout-planner."+format.String(), data)
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	format, err := persistence.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	res, err := handler.service.Import(r.Context(), payload, format)
	if err != nil {
		handler.writeServiceError(w, "import", err)
		return
	}
	handler.writeResult(w, res)
}

func (handler *Handler) HandlePersonalBest(w http.ResponseWriter, r *http.Request) {
	handler.serveStats(w, r, func(state store.State) (any, error) {
		exercise, err := findExercise(state, mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}
		logs := store.LogsForExercise(state.Logs, exercise.ID)
		return struct {
			Best *stats.Best `json:"best"`
			Text string      `json:"text"`
		}{
			Best: stats.PersonalBest(exercise, logs),
			Text: stats.FormatPersonalBest(exercise, logs, state.Settings.Preferences.DefaultUnit),
		}, nil
	})
}

func (handler *Handler) HandleProgressTrend(w http.ResponseWriter, r *http.Request) {
	days := defaultTrendDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive number", http.StatusBadRequest)
			return
		}
		days = parsed
	}
	// the trend window moves with the clock, so the date is part of the cache key
	today := calendar.FormatISO(handler.service.Now())
	handler.serveStatsKeyed(w, r, today, func(state store.State) (any, error) {
		exercise, err := findExercise(state, mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}
		return stats.ProgressTrend(exercise, state.Logs.List(), days, handler.service.Now()), nil
	})
}

func (handler *Handler) HandleLastSession(w http.ResponseWriter, r *http.Request) {
	before := r.URL.Query().Get("before")
	if before != "" && !calendar.IsISODate(before) {
		http.Error(w, "before must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	handler.serveStats(w, r, func(state store.State) (any, error) {
		exercise, err := findExercise(state, mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}

		var entry workout.LogEntry
		var found bool
		if before != "" {
			entry, found = stats.LatestLogBefore(state.Logs.List(), exercise.ID, before)
		} else {
			entry, found = stats.LatestLog(state.Logs.List(), exercise.ID)
		}
		var entryPtr *workout.LogEntry
		if found {
			entryPtr = &entry
		}

		unit := state.Settings.Preferences.DefaultUnit
		return struct {
			Entry   *workout.LogEntry `json:"entry"`
			Details []string          `json:"details"`
			Text    string            `json:"text"`
		}{
			Entry:   entryPtr,
			Details: stats.SessionDetails(exercise, entryPtr, unit),
			Text:    stats.FormatLastSession(exercise, entryPtr, unit),
		}, nil
	})
}

func (handler *Handler) HandleExerciseUsage(w http.ResponseWriter, r *http.Request) {
	handler.serveStats(w, r, func(state store.State) (any, error) {
		exercise, err := findExercise(state, mux.Vars(r)["id"])
		if err != nil {
			return nil, err
		}
		return stats.ExerciseUsage(exercise.ID, state.Planner.Plan, state.Logs.List()), nil
	})
}

func (handler *Handler) HandleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	weekStart := mux.Vars(r)["weekStart"]
	if !calendar.IsISODate(weekStart) {
		http.Error(w, "week start must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	handler.serveStats(w, r, func(state store.State) (any, error) {
		return stats.WeeklyStats(state.Logs.List(), state.Planner.Plan, weekStart)
	})
}

func (handler *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	var dates []string
	if from != "" || to != "" {
		var err error
		dates, err = calendar.DatesBetween(from, to)
		if err != nil {
			http.Error(w, "from and to must be YYYY-MM-DD dates", http.StatusBadRequest)
			return
		}
		if len(dates) == 0 {
			http.Error(w, "from must not be after to", http.StatusBadRequest)
			return
		}
	}
	handler.serveStats(w, r, func(state store.State) (any, error) {
		return stats.CompletionStats(state.Planner.Plan, state.Logs.List(), dates), nil
	})
}

func (handler *Handler) HandleWorkoutSummary(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if !calendar.IsISODate(date) {
		http.Error(w, "date must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	handler.serveStats(w, r, func(state store.State) (any, error) {
		return stats.WorkoutSummary(state.Logs.List(), date), nil
	})
}

type WeekDay struct {
	Day     calendar.Day      `json:"day"`
	DateISO string            `json:"dateISO"`
	Items   workout.PlanItems `json:"items"`
}

type Week struct {
	WeekStartISO string    `json:"weekStartISO"`
	PreviousISO  string    `json:"previousWeekStartISO"`
	NextISO      string    `json:"nextWeekStartISO"`
	Days         []WeekDay `json:"days"`
}

// HandleCalendarWeek lists the plan of the week containing ?date, or the
// current planner week when no date is given.
func (handler *Handler) HandleCalendarWeek(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !calendar.IsISODate(date) {
		http.Error(w, "date must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	handler.serveStats(w, r, func(state store.State) (any, error) {
		return WeekPlan(state, date)
	})
}

// WeekPlan resolves the week containing dateISO (or the planner's current
// week when empty) into its seven days with their plan items.
func WeekPlan(state store.State, dateISO string) (Week, error) {
	weekStart := state.Planner.CurrentWeekStartISO
	if dateISO != "" {
		var err error
		weekStart, err = calendar.WeekContaining(dateISO, state.Settings.Preferences.WeekStartDay)
		if err != nil {
			return Week{}, err
		}
	}

	dates, err := calendar.WeekDates(weekStart)
	if err != nil {
		return Week{}, err
	}
	prev, _ := calendar.PreviousWeek(weekStart)
	next, _ := calendar.NextWeek(weekStart)

	resp := Week{
		WeekStartISO: weekStart,
		PreviousISO:  prev,
		NextISO:      next,
		Days:         make([]WeekDay, 0, len(dates)),
	}
	for _, d := range dates {
		day, err := calendar.DayForDate(d)
		if err != nil {
			return Week{}, err
		}
		resp.Days = append(resp.Days, WeekDay{
			Day:     day,
			DateISO: d,
			Items:   state.Planner.Plan.Items(d),
		})
	}
	return resp, nil
}

type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string {
	return e.msg
}

func findExercise(state store.State, id string) (workout.Exercise, error) {
	exercise, ok := state.Exercises.Get(id)
	if !ok {
		return workout.Exercise{}, &statusError{status: http.StatusNotFound, msg: fmt.Sprintf("exercise %s not found", id)}
	}
	return exercise, nil
}

func (handler *Handler) serveStats(w http.ResponseWriter, r *http.Request, compute func(store.State) (any, error)) {
	handler.serveStatsKeyed(w, r, "", compute)
}

// serveStatsKeyed answers from the stats cache while the state revision is
// unchanged. Keys carry the revision, so stale entries are never read.
func (handler *Handler) serveStatsKeyed(w http.ResponseWriter, r *http.Request, extraKey string, compute func(store.State) (any, error)) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "plannerHandler.stats")
	defer span.End()

	state, revision, err := handler.service.Snapshot()
	if err != nil {
		handler.writeServiceError(w, "stats", err)
		return
	}

	cacheKey := []byte(fmt.Sprintf("%d::%s::%s", revision, extraKey, r.URL.RequestURI()))
	if cached, err := handler.statsCache.Get(cacheKey); err == nil {
		handler.countCache("hit")
		pkg.WriteResponseBytes(w, pkg.ContentTypeJSON, cached)
		return
	}
	handler.countCache("miss")

	result, err := compute(state)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			http.Error(w, se.msg, se.status)
			return
		}
		log.Errorf("stats %s: %s", r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		log.Errorf("marshal stats %s: %s", r.URL.Path, err)
		http.Error(w, "failed to marshal stats", http.StatusInternalServerError)
		return
	}
	if err := handler.statsCache.Set(cacheKey, data, statsCacheExpire); err != nil {
		log.Warnf("stats cache set %s: %s", r.URL.Path, err)
	}
	pkg.WriteResponseBytes(w, pkg.ContentTypeJSON, data)
}

func (handler *Handler) countCache(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterStatsCache.WithLabelValues(result).Inc()
	}
}

func (handler *Handler) writeResult(w http.ResponseWriter, res Result) {
	resp := dispatchResponse{
		Revision: res.Revision,
		Applied:  res.Applied.Type.String(),
		State:    res.State,
	}
	if res.IsRejected() {
		msg := res.Rejected.Message()
		resp.Rejected = &msg
	}
	handler.writeJSON(w, http.StatusOK, resp)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteStatusBytes(w, status, pkg.ContentTypeJSON, data)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotLoaded), errors.Is(err, ErrClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ErrExerciseInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrExerciseNotFound), errors.Is(err, ErrRoutineNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, persistence.ErrMalformedSnapshot), errors.Is(err, persistence.ErrUnknownFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, fmt.Sprintf("%s failed", op), http.StatusInternalServerError)
	}
}
