package overview

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/auth"
	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
	"github.com/mkovacevic/equilog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=overview_mocks_test.go -package=overview_test

type activitiesRepo interface {
	ListAll(ctx context.Context, params activities.ActivityParams) ([]activities.Activity, error)
}

type horsesRepo interface {
	IsOwner(ctx context.Context, horseID, userID string) (bool, error)
}

// Handler serves the training log overview: rolling stats, per-type
// breakdown, current week strip and calendar markers. All four are computed
// from the horse's activity history, fetched once per request through a
// short-lived cache.
type Handler struct {
	repo   activitiesRepo
	horses horsesRepo
	cache  *ActivitiesCache
	now    func() time.Time
}

// NewHandler creates the overview handler. The now func pins the reference
// date for the window and week computations, pass time.Now outside of tests.
func NewHandler(repo activitiesRepo, horses horsesRepo, cache *ActivitiesCache, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		repo:   repo,
		horses: horses,
		cache:  cache,
		now:    now,
	}
}

func (handler *Handler) checkHorseOwner(ctx context.Context, w http.ResponseWriter, horseID string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return false
	}
	isOwner, err := handler.horses.IsOwner(ctx, horseID, userID)
	if err != nil {
		log.Errorf("failed to check horse %s owner: %s", horseID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	if !isOwner {
		http.Error(w, "horse not found", http.StatusNotFound)
		return false
	}
	return true
}

func (handler *Handler) horseActivities(ctx context.Context, horseID string) ([]activities.Activity, error) {
	if acts, ok := handler.cache.Get(horseID); ok {
		return acts, nil
	}

	acts, err := handler.repo.ListAll(ctx, activities.ActivityParams{HorseID: horseID})
	if err != nil {
		return nil, err
	}

	handler.cache.Set(horseID, acts)
	return acts, nil
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overview.stats")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	if horseID == "" {
		http.Error(w, "error, horse id empty", http.StatusBadRequest)
		return
	}

	windowDays := DefaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			http.Error(w, "invalid days param", http.StatusBadRequest)
			return
		}
		windowDays = days
	}

	if !handler.checkHorseOwner(ctx, w, horseID) {
		return
	}

	acts, err := handler.horseActivities(ctx, horseID)
	if err != nil {
		log.Errorf("overview stats, get activities for horse %s: %s", horseID, err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	stats := ComputeStats(acts, handler.now().UTC(), windowDays)

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal overview stats: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func (handler *Handler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overview.breakdown")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	if horseID == "" {
		http.Error(w, "error, horse id empty", http.StatusBadRequest)
		return
	}

	windowDays := DefaultWindowDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			http.Error(w, "invalid days param", http.StatusBadRequest)
			return
		}
		windowDays = days
	}

	if !handler.checkHorseOwner(ctx, w, horseID) {
		return
	}

	acts, err := handler.horseActivities(ctx, horseID)
	if err != nil {
		log.Errorf("overview breakdown, get activities for horse %s: %s", horseID, err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	breakdown := ComputeBreakdown(acts, handler.now().UTC(), windowDays)

	breakdownJson, err := json.Marshal(breakdown)
	if err != nil {
		log.Errorf("failed to marshal overview breakdown: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, breakdownJson, http.StatusOK)
}

func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overview.week")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	if horseID == "" {
		http.Error(w, "error, horse id empty", http.StatusBadRequest)
		return
	}

	if !handler.checkHorseOwner(ctx, w, horseID) {
		return
	}

	acts, err := handler.horseActivities(ctx, horseID)
	if err != nil {
		log.Errorf("overview week, get activities for horse %s: %s", horseID, err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	week := ComputeWeek(acts, handler.now().UTC())

	weekJson, err := json.Marshal(week)
	if err != nil {
		log.Errorf("failed to marshal overview week: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, weekJson, http.StatusOK)
}

func (handler *Handler) HandleCalendarMarkers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.overview.calendar")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	if horseID == "" {
		http.Error(w, "error, horse id empty", http.StatusBadRequest)
		return
	}

	selectedDate := r.URL.Query().Get("selected")
	if selectedDate != "" {
		if _, err := time.Parse(activities.DateLayout, selectedDate); err != nil {
			http.Error(w, "invalid selected date", http.StatusBadRequest)
			return
		}
	}

	if !handler.checkHorseOwner(ctx, w, horseID) {
		return
	}

	acts, err := handler.horseActivities(ctx, horseID)
	if err != nil {
		log.Errorf("overview calendar, get activities for horse %s: %s", horseID, err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	markers := ComputeMarkers(acts, selectedDate)

	markersJson, err := json.Marshal(markers)
	if err != nil {
		log.Errorf("failed to marshal calendar markers: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, markersJson, http.StatusOK)
}
