package sheetmap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type announced for exported workbooks.
const ContentType = "application/x-excel"

// Exporter turns one tagged source value into a workbook. It is not safe
// for concurrent use; create one per source.
type Exporter struct {
	source   interface{}
	cfg      config
	file     *excelize.File
	released bool
	logger   *zerolog.Logger
}

func NewExporter(source interface{}, opts ...Option) *Exporter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exporter{source: source, cfg: cfg, logger: loggerFrom(context.Background())}
}

// Generate binds the source and materializes the workbook. Later calls
// return the workbook produced by the first successful call.
func (e *Exporter) Generate(ctx context.Context) (*excelize.File, error) {
	if e.released {
		return nil, ErrWorkbookReleased
	}
	if e.file != nil {
		return e.file, nil
	}
	logger := loggerFrom(ctx)
	e.logger = logger
	start := time.Now()

	v := reflect.ValueOf(e.source)
	src, ok := indirect(v)
	if !ok {
		return nil, fmt.Errorf("%w: source is nil", ErrInvalidConfiguration)
	}
	if src.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: source must be a struct, got %s", ErrInvalidConfiguration, src.Type())
	}

	loader := e.cfg.loader
	if loader == nil {
		logger.Warn().Msg("no type loader supplied, using DefaultRegistry; converters and suppliers registered elsewhere may not resolve")
		loader = DefaultRegistry
	}

	b := newBinder(ctx, NewMethodResolver(loader), e.cfg.location, e.cfg.presets, e.cfg.allowUnexported)
	if err := b.bind(v, 0); err != nil {
		return nil, err
	}
	m, err := newMaterializer(b.state)
	if err != nil {
		return nil, err
	}
	f, err := m.materialize()
	if err != nil {
		return nil, err
	}
	e.file = f

	logger.Info().
		Str("source", src.Type().Name()).
		Int("sheets", len(b.state.order)).
		Int("styles", m.catalog.Len()).
		Dur("duration", time.Since(start)).
		Msg("workbook generated")
	return f, nil
}

// Workbook returns the generated workbook.
func (e *Exporter) Workbook() (*excelize.File, error) {
	if e.released {
		return nil, ErrWorkbookReleased
	}
	if e.file == nil {
		return nil, ErrNotGenerated
	}
	return e.file, nil
}

type flusher interface {
	Flush() error
}

// WriteTo writes the workbook to w and releases it. The workbook is closed
// on every path; close errors are ignored.
func (e *Exporter) WriteTo(w io.Writer) (int64, error) {
	f, err := e.Workbook()
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, fmt.Errorf("%w: nil writer", ErrInvalidConfiguration)
	}
	defer func() {
		_ = f.Close()
		e.released = true
	}()

	n, err := f.WriteTo(w)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to write workbook")
		return n, fmt.Errorf("write workbook: %w", err)
	}
	if fl, ok := w.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return n, fmt.Errorf("flush workbook: %w", err)
		}
	}
	return n, nil
}

// Response writes the workbook as an attachment named name.xlsx.
func (e *Exporter) Response(w http.ResponseWriter, name string) error {
	if _, err := e.Workbook(); err != nil {
		return err
	}
	PrepareResponse(w.Header(), name)
	bw := bufio.NewWriter(w)
	_, err := e.WriteTo(bw)
	return err
}

// PrepareResponse sets the download headers for a workbook named name.xlsx.
func PrepareResponse(h http.Header, name string) {
	h.Set("Content-Type", ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
}
