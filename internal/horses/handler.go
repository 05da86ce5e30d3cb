package horses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/internal/auth"
	"github.com/mkovacevic/equilog/internal/telemetry/metrics"
	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
	"github.com/mkovacevic/equilog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=horses_mocks_test.go -package=horses_test

// photo uploads over this size get rejected outright
const maxUploadedPhotoSize = 16 << 20

type horsesRepo interface {
	Add(ctx context.Context, horse Horse) (*Horse, error)
	Get(ctx context.Context, id string) (*Horse, error)
	List(ctx context.Context, ownerID string) ([]Horse, error)
	Update(ctx context.Context, horse *Horse) error
	SetPhotoURL(ctx context.Context, id string, photoURL *string) error
	Delete(ctx context.Context, id string) error
	IsOwner(ctx context.Context, horseID, userID string) (bool, error)
}

type photosStore interface {
	Save(ctx context.Context, horseID, filename string, src io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type markersCache interface {
	InvalidateHorse(horseID string)
}

type HorseRequest struct {
	Name string `json:"name"`
}

type DeleteHorseResponse struct {
	DeletedID string `json:"deletedId"`
}

type UpdateHorseResponse struct {
	UpdatedID string `json:"updatedId"`
}

type UploadPhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}

type Handler struct {
	repo    horsesRepo
	photos  photosStore
	cache   markersCache
	metrics *metrics.Manager
}

func NewHandler(repo horsesRepo, photos photosStore, cache markersCache, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		photos:  photos,
		cache:   cache,
		metrics: metrics,
	}
}

// ownedHorse loads the horse and checks it belongs to the logged-in user,
// writing the error response itself otherwise.
func (handler *Handler) ownedHorse(ctx context.Context, w http.ResponseWriter, horseID string) *Horse {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return nil
	}

	horse, err := handler.repo.Get(ctx, horseID)
	if err != nil && !errors.Is(err, ErrHorseNotFound) {
		log.Errorf("failed to get horse %s: %s", horseID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	} else if errors.Is(err, ErrHorseNotFound) || horse.OwnerID != userID {
		http.Error(w, "horse not found", http.StatusNotFound)
		return nil
	}

	return horse
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req HorseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new horse, unmarshal json params: %s", err)
		http.Error(w, "add horse failed", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "error, horse name empty", http.StatusBadRequest)
		return
	}

	addedHorse, err := handler.repo.Add(ctx, Horse{
		OwnerID: userID,
		Name:    req.Name,
	})
	if err != nil {
		log.Errorf("failed to add new horse [%s]: %s", req.Name, err)
		http.Error(w, "error, failed to add new horse", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterHorses.Inc()

	addedHorseJson, err := json.Marshal(addedHorse)
	if err != nil {
		log.Errorf("failed to marshal new horse: %s", err)
		http.Error(w, "error, failed to add new horse", http.StatusInternalServerError)
		return
	}

	log.Debugf("new horse added: %s", addedHorseJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedHorseJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	ownedHorses, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list horses error: %s", err)
		http.Error(w, "failed to get horses", http.StatusInternalServerError)
		return
	}

	horsesJson, err := json.Marshal(ownedHorses)
	if err != nil {
		log.Errorf("marshal horses error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, horsesJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	horse := handler.ownedHorse(ctx, w, id)
	if horse == nil {
		return
	}

	horseJson, err := json.Marshal(horse)
	if err != nil {
		log.Errorf("failed to marshal horse: %s", err)
		http.Error(w, "failed to marshal horse", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, horseJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.update")
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

	var req HorseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update horse, unmarshal json params: %s", err)
		http.Error(w, "update horse failed", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "error, horse name empty", http.StatusBadRequest)
		return
	}

	horse := handler.ownedHorse(ctx, w, id)
	if horse == nil {
		return
	}

	horse.Name = req.Name
	if err := handler.repo.Update(ctx, horse); err != nil {
		log.Errorf("failed to update horse %s: %s", id, err)
		http.Error(w, "error, failed to update horse", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateHorseResponse{
		UpdatedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.delete")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	horse := handler.ownedHorse(ctx, w, id)
	if horse == nil {
		return
	}

	log.Debugf("deleting horse %+v", horse)

	if err := handler.repo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete horse %s: %s", id, err)
		http.Error(w, "horse not deleted", http.StatusInternalServerError)
		return
	}

	handler.cache.InvalidateHorse(id)

	if horse.PhotoURL != nil {
		// photo cleanup is best-effort, the horse record is already gone
		if err := handler.photos.Remove(ctx, *horse.PhotoURL); err != nil {
			log.Errorf("failed to remove photo of deleted horse %s: %s", id, err)
		}
	}

	deleteRespJson, err := json.Marshal(DeleteHorseResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

// HandleUploadPhoto saves the uploaded photo, points the horse record at it
// and drops the previous photo, if any. One photo per horse.
func (handler *Handler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.horses.uploadphoto")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	horse := handler.ownedHorse(ctx, w, id)
	if horse == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadedPhotoSize); err != nil {
		log.Errorf("upload photo, parse multipart form: %s", err)
		http.Error(w, "internal error or photo too big", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		log.Errorf("upload photo, form file: %s", err)
		http.Error(w, "error, photo file missing", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("failed to close uploaded photo [%s]: %s", fileHeader.Filename, err)
		}
	}()

	photoURL, err := handler.photos.Save(ctx, id, fileHeader.Filename, file)
	if err != nil {
		log.Errorf("failed to save photo for horse %s: %s", id, err)
		http.Error(w, "failed to upload photo", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.SetPhotoURL(ctx, id, &photoURL); err != nil {
		log.Errorf("failed to set photo url for horse %s: %s", id, err)
		if removeErr := handler.photos.Remove(ctx, photoURL); removeErr != nil {
			log.Errorf("failed to remove orphaned photo %s: %s", photoURL, removeErr)
		}
		http.Error(w, "failed to upload photo", http.StatusInternalServerError)
		return
	}

	if horse.PhotoURL != nil {
		if err := handler.photos.Remove(ctx, *horse.PhotoURL); err != nil {
			log.Errorf("failed to remove replaced photo %s: %s", *horse.PhotoURL, err)
		}
	}

	handler.metrics.CounterPhotoUploads.Inc()
	log.Debugf("horse %s photo set: %s", id, photoURL)

	uploadRespJson, err := json.Marshal(UploadPhotoResponse{
		PhotoURL: photoURL,
	})
	if err != nil {
		log.Errorf("failed to marshal upload response: %s", err)
		http.Error(w, "failed to marshal upload response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(uploadRespJson))
}
