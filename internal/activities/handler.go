package activities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/internal/activities/catalog"
	"github.com/mkovacevic/equilog/internal/auth"
	"github.com/mkovacevic/equilog/internal/telemetry/metrics"
	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
	"github.com/mkovacevic/equilog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=activities_mocks_test.go -package=activities_test

type activitiesRepo interface {
	Add(ctx context.Context, activity Activity) (*Activity, error)
	Get(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, params ListParams) (_ []Activity, total int, err error)
	ListAll(ctx context.Context, params ActivityParams) (_ []Activity, err error)
	Update(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, id string) error
}

type horsesRepo interface {
	IsOwner(ctx context.Context, horseID, userID string) (bool, error)
}

// markersCache is implemented by the overview calendar cache; entries for a
// horse go stale on every activity write.
type markersCache interface {
	InvalidateHorse(horseID string)
}

// Record kinds of the activity payload. An exercise record carries duration,
// level and feeling; a special record (rest, injured) never does.
const (
	KindExercise = "exercise"
	KindSpecial  = "special"
)

type ActivityRequest struct {
	Kind      string  `json:"kind"`
	HorseID   string  `json:"horse_id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Duration  *int    `json:"duration,omitempty"`
	Level     *int    `json:"level,omitempty"`
	Feeling   *string `json:"feeling,omitempty"`
	Notes     string  `json:"notes"`
	IsPlanned bool    `json:"is_planned"`
}

// Validate checks the payload against the activity catalog. The kind tag has
// to agree with the type: rest and injured records are special, everything
// else is an exercise.
func (req ActivityRequest) Validate() error {
	if req.HorseID == "" {
		return errors.New("horse id empty")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return fmt.Errorf("%w [%s], expected format %s", ErrInvalidDate, req.Date, DateLayout)
	}
	if !catalog.ValidType(req.Type) {
		return fmt.Errorf("unknown activity type [%s]", req.Type)
	}

	switch req.Kind {
	case KindSpecial:
		if !catalog.IsSpecial(req.Type) {
			return fmt.Errorf("type [%s] is not a special type", req.Type)
		}
		if req.Duration != nil || req.Level != nil || req.Feeling != nil {
			return errors.New("special records take no duration, level or feeling")
		}
	case KindExercise:
		if catalog.IsSpecial(req.Type) {
			return fmt.Errorf("type [%s] needs a special record", req.Type)
		}
		if req.Duration != nil && *req.Duration <= 0 {
			return errors.New("duration has to be a positive number of minutes")
		}
		if req.Level != nil && (*req.Level < 1 || *req.Level > 5) {
			return errors.New("level has to be between 1 and 5")
		}
		if req.Feeling != nil {
			if _, ok := catalog.FeelingByKey(*req.Feeling); !ok {
				return fmt.Errorf("unknown feeling [%s]", *req.Feeling)
			}
		}
	default:
		return fmt.Errorf("unknown record kind [%s]", req.Kind)
	}

	return nil
}

func (req ActivityRequest) toActivity() Activity {
	return Activity{
		HorseID:   req.HorseID,
		Date:      req.Date,
		Type:      req.Type,
		Duration:  req.Duration,
		Level:     req.Level,
		Feeling:   req.Feeling,
		Notes:     req.Notes,
		IsPlanned: req.IsPlanned,
	}
}

type DeleteActivityResponse struct {
	DeletedID string `json:"deletedId"`
}

type UpdateActivityResponse struct {
	UpdatedID string `json:"updatedId"`
}

type ListResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}

type Handler struct {
	repo    activitiesRepo
	horses  horsesRepo
	cache   markersCache
	metrics *metrics.Manager
}

func NewHandler(repo activitiesRepo, horses horsesRepo, cache markersCache, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		horses:  horses,
		cache:   cache,
		metrics: metrics,
	}
}

// checkHorseOwner makes sure the horse exists and belongs to the logged-in
// user, writing the error response itself when it does not.
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

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new activity, unmarshal json params: %s", err)
		http.Error(w, "add activity failed", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.checkHorseOwner(ctx, w, req.HorseID) {
		return
	}

	activity := req.toActivity()
	activity.CreatedBy, _ = auth.UserIDFromContext(ctx)

	addedActivity, err := handler.repo.Add(ctx, activity)
	if err != nil {
		if errors.Is(err, ErrHorseGone) {
			http.Error(w, "horse not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add new activity [%s] for horse %s: %s", activity.Type, activity.HorseID, err)
		http.Error(w, "error, failed to add new activity", http.StatusInternalServerError)
		return
	}

	handler.cache.InvalidateHorse(addedActivity.HorseID)
	handler.metrics.CounterActivities.Inc()

	addedActivityJson, err := json.Marshal(addedActivity)
	if err != nil {
		log.Errorf("failed to marshal new activity: %s", err)
		http.Error(w, "error, failed to add new activity", http.StatusInternalServerError)
		return
	}

	log.Debugf("new activity added: %s", addedActivityJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedActivityJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	activity, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get activity %s: %s", id, err)
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	if !handler.checkHorseOwner(ctx, w, activity.HorseID) {
		return
	}

	activityJson, err := json.Marshal(activity)
	if err != nil {
		log.Errorf("failed to marshal activity: %s", err)
		http.Error(w, "failed to marshal activity", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, activityJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.list")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	if horseID == "" {
		http.Error(w, "error, horse id empty", http.StatusBadRequest)
		return
	}

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list activities, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list activities, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	if !handler.checkHorseOwner(ctx, w, horseID) {
		return
	}

	var planned *bool
	if plannedStr := r.URL.Query().Get("planned"); plannedStr != "" {
		plannedVal, err := strconv.ParseBool(plannedStr)
		if err != nil {
			log.Errorf("failed to parse planned param: %s", err)
			http.Error(w, "failed to parse planned param", http.StatusBadRequest)
			return
		}
		planned = &plannedVal
	}

	listParams := ListParams{
		ActivityParams: ActivityParams{
			HorseID: horseID,
			Type:    r.URL.Query().Get("type"),
			From:    r.URL.Query().Get("from"),
			To:      r.URL.Query().Get("to"),
			Planned: planned,
		},
		Page: page,
		Size: size,
	}

	activitiesPage, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list activities error: %s", err)
		http.Error(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Activities: activitiesPage,
		Total:      total,
	})
	if err != nil {
		log.Errorf("marshal activities error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update activity, unmarshal json params: %s", err)
		http.Error(w, "update activity failed", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	currentActivity, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrActivityNotFound) {
		log.Errorf("failed to get activity %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrActivityNotFound) {
		log.Debugf("activity %s not found", id)
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	if !handler.checkHorseOwner(ctx, w, currentActivity.HorseID) {
		return
	}
	if req.HorseID != currentActivity.HorseID {
		http.Error(w, "activity cannot change horse", http.StatusBadRequest)
		return
	}

	activity := req.toActivity()
	activity.ID = id
	activity.CreatedBy = currentActivity.CreatedBy
	log.Debugf("update activity %+v -> %+v", currentActivity, activity)

	if err := handler.repo.Update(ctx, &activity); err != nil {
		log.Errorf("failed to update activity [%s], [%s]: %s", activity.ID, activity.Type, err)
		http.Error(w, "error, failed to update activity", http.StatusInternalServerError)
		return
	}

	handler.cache.InvalidateHorse(activity.HorseID)

	updateRespJson, err := json.Marshal(UpdateActivityResponse{
		UpdatedID: activity.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activities.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	activity, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrActivityNotFound) {
		log.Errorf("failed to get activity %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrActivityNotFound) {
		log.Debugf("activity %s not found", id)
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}

	if !handler.checkHorseOwner(ctx, w, activity.HorseID) {
		return
	}

	log.Debugf("deleting activity %+v", activity)

	if err := handler.repo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete activity %s: %s", id, err)
		http.Error(w, "activity not deleted", http.StatusInternalServerError)
		return
	}

	handler.cache.InvalidateHorse(activity.HorseID)

	deleteRespJson, err := json.Marshal(DeleteActivityResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
