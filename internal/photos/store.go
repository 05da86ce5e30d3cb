// Package photos keeps horse photos on local disk, one directory per horse.
// Uploads get a random name, the returned public path goes straight into the
// horse record.
package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
	"github.com/mkovacevic/equilog/pkg"
)

// PublicPathPrefix is the URL prefix under which saved photos are served.
const PublicPathPrefix = "/photos"

var (
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrInvalidPhotoURL = errors.New("invalid photo url")
)

type Store struct {
	rootPath string
}

func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}

	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check root path: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(rootPath, 0o755); err != nil {
			return nil, fmt.Errorf("create root path: %w", err)
		}
		log.Debugf("photos store: created root dir %s", rootPath)
	}

	return &Store{rootPath: rootPath}, nil
}

// Save writes the photo under root/horseID and returns the public URL path
// for it. The original filename only contributes its extension.
func (s *Store) Save(ctx context.Context, horseID, filename string, src io.Reader) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "photos.store.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("horse.id", horseID))
	span.SetAttributes(attribute.String("file.name", filename))

	horseDir := filepath.Join(s.rootPath, horseID)
	if err := os.MkdirAll(horseDir, 0o755); err != nil {
		return "", fmt.Errorf("create horse dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	dst, err := os.Create(filepath.Join(horseDir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	publicPath := path.Join(PublicPathPrefix, horseID, name)
	log.Debugf("photos store: saved %s", publicPath)
	return publicPath, nil
}

// Remove deletes the photo behind a public URL path previously returned by
// Save. Removing an already missing photo is not an error.
func (s *Store) Remove(ctx context.Context, publicPath string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "photos.store.remove")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	diskPath, err := s.diskPath(publicPath)
	if err != nil {
		return err
	}

	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Open returns the photo file for serving.
func (s *Store) Open(ctx context.Context, horseID, name string) (_ *os.File, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "photos.store.open")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	diskPath, err := s.diskPath(path.Join(PublicPathPrefix, horseID, name))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(diskPath)
	if os.IsNotExist(err) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

// diskPath maps a public URL path back to a path under the store root,
// rejecting anything that would escape it.
func (s *Store) diskPath(publicPath string) (string, error) {
	rel, found := strings.CutPrefix(path.Clean(publicPath), PublicPathPrefix+"/")
	if !found || rel == "" || strings.Contains(rel, "..") {
		return "", ErrInvalidPhotoURL
	}
	return filepath.Join(s.rootPath, filepath.FromSlash(rel)), nil
}
