package images

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gallery-app/internal/domain/media"
	"gallery-app/internal/infra/metrics"
	"gallery-app/internal/infra/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const MaxUploadSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("only JPEG, PNG and HEIC/HEIF images are accepted")
	ErrTooLarge        = errors.New("image exceeds the 10 MiB limit")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// Accept checks an incoming upload against the type allow-list and the
// size limit.
func Accept(mimeType string, size int64) error {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ErrUnsupportedType
	}
	if _, ok := allowedTypes[strings.ToLower(mt)]; !ok {
		return ErrUnsupportedType
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}

// Upload is a received file waiting for processing. TempPath is removed
// once Process returns.
type Upload struct {
	TempPath string
	MIMEType string
	Filename string
}

type Pipeline struct {
	dir       string
	processor Processor
	fallback  Processor
	backend   storage.Backend
	local     *storage.Local
}

func NewPipeline(dir string, processor Processor, backend storage.Backend) *Pipeline {
	return &Pipeline{
		dir:       dir,
		processor: processor,
		fallback:  Copy{},
		backend:   backend,
		local:     storage.NewLocal(storage.LocalBaseURL),
	}
}

func (p *Pipeline) Dir() string {
	return p.dir
}

// Process writes the three derivatives of up into the uploads directory
// and returns their URLs. A processor failure falls back to verbatim
// copies; only a failed copy is returned as an error.
func (p *Pipeline) Process(ctx context.Context, up Upload) (media.ImageSet, error) {
	defer os.Remove(up.TempPath)

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return media.ImageSet{}, fmt.Errorf("create uploads dir: %w", err)
	}

	base := uuid.NewString()
	ext := extension(up)
	targets := make([]Target, len(Variants))
	for i, v := range Variants {
		targets[i] = Target{Variant: v, Path: filepath.Join(p.dir, base+"_"+v.Name+ext)}
	}

	mode := "resized"
	if err := p.processor.Render(up.TempPath, targets); err != nil {
		log.Warn().Err(err).Str("processor", p.processor.Name()).Str("file", up.Filename).
			Msg("image processing failed, copying original")
		removeAll(targets)
		mode = "copied"
		if err := p.fallback.Render(up.TempPath, targets); err != nil {
			removeAll(targets)
			return media.ImageSet{}, err
		}
	} else if p.processor.Name() == p.fallback.Name() {
		mode = "copied"
	}
	metrics.Derivatives.WithLabelValues(mode).Inc()

	urls := p.publish(ctx, targets)
	return media.ImageSet{Full: urls[0], Standard: urls[1], Thumb: urls[2]}, nil
}

// publish hands the derivatives to the backend. When the backend fails the
// files already published are taken down again and the local copies are
// served instead.
func (p *Pipeline) publish(ctx context.Context, targets []Target) []string {
	urls := make([]string, len(targets))
	for i, t := range targets {
		url, err := p.backend.Publish(ctx, filepath.Base(t.Path), t.Path)
		if err == nil {
			urls[i] = url
			continue
		}
		log.Warn().Err(err).Str("file", filepath.Base(t.Path)).Msg("publishing derivatives failed, serving local copies")
		for _, done := range targets[:i] {
			p.unpublish(ctx, filepath.Base(done.Path))
		}
		for j, t := range targets {
			urls[j] = p.local.URL(filepath.Base(t.Path))
		}
		break
	}
	return urls
}

func (p *Pipeline) unpublish(ctx context.Context, name string) {
	if err := p.backend.Remove(ctx, name); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("remove published derivative")
	}
}

// Discard deletes the derivatives of a set returned by Process that was
// not stored after all.
func (p *Pipeline) Discard(ctx context.Context, set media.ImageSet) {
	for _, url := range []string{set.Full, set.Standard, set.Thumb} {
		if url == "" {
			continue
		}
		name := path.Base(url)
		if name == "." || name == ".." || name == "/" {
			continue
		}
		if err := os.Remove(filepath.Join(p.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", name).Msg("discard derivative")
		}
		if !strings.HasPrefix(url, storage.LocalBaseURL+"/") {
			p.unpublish(ctx, name)
		}
	}
}

func extension(up Upload) string {
	switch ext := strings.ToLower(filepath.Ext(up.Filename)); ext {
	case ".jpg", ".jpeg", ".png", ".heic", ".heif":
		return ext
	}
	if mt, _, err := mime.ParseMediaType(up.MIMEType); err == nil {
		if ext, ok := allowedTypes[mt]; ok {
			return ext
		}
	}
	return ".jpg"
}

func removeAll(targets []Target) {
	for _, t := range targets {
		_ = os.Remove(t.Path)
	}
}
