package photos

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// HandleGet streams a stored photo. Photo names are random, so the paths are
// not guessable and get served without a login check.
func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.photos.get")
	defer span.End()

	vars := mux.Vars(r)
	horseID := vars["horseId"]
	name := vars["name"]
	if horseID == "" || name == "" {
		http.Error(w, "error, photo path empty", http.StatusBadRequest)
		return
	}

	file, err := handler.store.Open(ctx, horseID, name)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) || errors.Is(err, ErrInvalidPhotoURL) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to open photo %s/%s: %s", horseID, name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("failed to close photo file %s: %s", name, err)
		}
	}()

	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	if _, err := io.Copy(w, file); err != nil {
		log.Errorf("failed to write photo %s: %s", name, err)
	}
}
