package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/modelgen/compiler/source"
)

// Artifact is one output file. Template artifacts are rendered from a built
// class context; the others are written as is.
type Artifact struct {
	// Path of the file, relative to the target directory.
	Path string
	// Template is the template to render Context with. Empty for raw files.
	Template string
	// Context is the built class or enum context. It is never mutated.
	Context source.Context
	// Renderer overrides the configured renderer.
	Renderer Renderer
	// Content holds the file content of raw artifacts.
	Content []byte
}

// TemplateWriter renders and writes artifacts with parallel execution.
// Go sources are formatted with goimports.
type TemplateWriter struct {
	renderer Renderer
	header   string
	outDir   string
	workers  int
	logger   *zap.Logger

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     int64 // nanoseconds
	FormatTime     int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// NewTemplateWriter creates a new writer rendering with r into outDir.
func NewTemplateWriter(r Renderer, outDir string) *TemplateWriter {
	return &TemplateWriter{
		renderer: r,
		outDir:   outDir,
		workers:  runtime.GOMAXPROCS(0),
		logger:   zap.NewNop(),
		metrics:  &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *TemplateWriter) WithWorkers(n int) *TemplateWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithHeader sets the comment written at the top of Java and Go sources.
func (w *TemplateWriter) WithHeader(header string) *TemplateWriter {
	w.header = header
	return w
}

// WithLogger sets the logger.
func (w *TemplateWriter) WithLogger(l *zap.Logger) *TemplateWriter {
	if l != nil {
		w.logger = l
	}
	return w
}

// Metrics returns a copy of the generation metrics.
func (w *TemplateWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// WriteAll writes all artifacts in parallel. It stops at the first failure.
func (w *TemplateWriter) WriteAll(ctx context.Context, artifacts []*Artifact) error {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, a := range artifacts {
		a := a // per-iteration copy; go.mod targets go1.21 loop semantics
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(a)
			}
		})
	}

	return eg.Wait()
}

// writeFile renders, formats and writes a single artifact.
func (w *TemplateWriter) writeFile(a *Artifact) error {
	content, err := w.render(a)
	if err != nil {
		return NewGenerationError("render", a.Path, "", err)
	}

	fullPath := filepath.Join(w.outDir, a.Path)
	if filepath.Ext(a.Path) == ".go" {
		start := time.Now()
		formatted, err := imports.Process(fullPath, content, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, content, 0o644)
			return NewGenerationError("format", a.Path, "unformatted written to "+debugPath, err)
		}
		content = formatted
		w.record(func(m *WriterMetrics) { m.FormatTime += int64(time.Since(start)) })
	}

	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError("write", a.Path, "create directory", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return NewGenerationError("write", a.Path, "", err)
	}
	w.logger.Debug("file written", zap.String("path", a.Path), zap.Int("bytes", len(content)))

	w.record(func(m *WriterMetrics) {
		m.WriteTime += int64(time.Since(start))
		m.FilesGenerated++
		m.TotalBytes += int64(len(content))
	})
	return nil
}

func (w *TemplateWriter) render(a *Artifact) ([]byte, error) {
	if a.Template == "" {
		return a.Content, nil
	}
	r := a.Renderer
	if r == nil {
		r = w.renderer
	}
	if r == nil {
		return nil, fmt.Errorf("no renderer for template %q", a.Template)
	}
	start := time.Now()
	out, err := r.Render(a.Template, a.Context)
	if err != nil {
		return nil, err
	}
	w.record(func(m *WriterMetrics) { m.RenderTime += int64(time.Since(start)) })
	if w.header == "" || !hasHeader(a.Path) {
		return out, nil
	}
	var b bytes.Buffer
	b.WriteString(strings.TrimSpace(w.header))
	b.WriteString("\n\n")
	b.Write(out)
	return b.Bytes(), nil
}

func (w *TemplateWriter) record(fn func(*WriterMetrics)) {
	w.mu.Lock()
	fn(w.metrics)
	w.mu.Unlock()
}

// hasHeader reports whether files at path take the "//" header comment.
func hasHeader(path string) bool {
	switch filepath.Ext(path) {
	case ".java", ".go":
		return true
	default:
		return false
	}
}
