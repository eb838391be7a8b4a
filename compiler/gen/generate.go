package gen

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/schema"
)

// Generate runs the generation pipeline on project p:
//
//  1. The model visitors run in the init and edit phases.
//  2. The graph is built: every field is resolved and classified.
//  3. The model visitors run in the post-edit phase.
//  4. One class per entity and one enum model per enum are built, and the
//     enabled features add their artifacts.
//  5. All artifacts are rendered and written in parallel.
//  6. Outputs of disabled features are removed.
//
// It returns the metrics of the writer.
func Generate(ctx context.Context, c *Config, p *schema.Project) (WriterMetrics, error) {
	if c == nil || c.Target == "" {
		return WriterMetrics{}, NewConfigError("Target", nil, "missing target directory in config")
	}
	if p == nil {
		return WriterMetrics{}, NewModelError("", "", "project cannot be nil", nil)
	}
	g, err := Prepare(c, p)
	if err != nil {
		return WriterMetrics{}, err
	}
	artifacts, err := g.Artifacts()
	if err != nil {
		return WriterMetrics{}, err
	}
	for _, f := range c.Features {
		if f.Artifacts == nil {
			continue
		}
		extra, err := f.Artifacts(g, artifacts)
		if err != nil {
			return WriterMetrics{}, NewGenerationError("feature", "", fmt.Sprintf("feature %q", f.Name), err)
		}
		artifacts = append(artifacts, extra...)
	}
	w := NewTemplateWriter(c.Renderer, c.Target).
		WithWorkers(c.Workers).
		WithHeader(c.Header).
		WithLogger(c.logger())
	if err := w.WriteAll(ctx, artifacts); err != nil {
		return w.Metrics(), err
	}
	if err := cleanup(c); err != nil {
		return w.Metrics(), NewGenerationError("cleanup", "", "", err)
	}
	m := w.Metrics()
	c.logger().Info("generation done",
		zap.String("target", c.Target),
		zap.Int("files", m.FilesGenerated),
		zap.Int64("bytes", m.TotalBytes),
	)
	return m, nil
}

// Prepare runs the model visitors around the graph construction, steps 1 to
// 3 of Generate, and returns the graph.
func Prepare(c *Config, p *schema.Project) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if p == nil {
		return nil, NewModelError("", "", "project cannot be nil", nil)
	}
	for _, phase := range []Phase{PhaseInit, PhaseEdit} {
		if err := visitModel(c, p, phase); err != nil {
			return nil, err
		}
	}
	g, err := NewGraph(c, p)
	if err != nil {
		return nil, err
	}
	if err := visitModel(c, p, PhasePostEdit); err != nil {
		return nil, err
	}
	return g, nil
}

func visitModel(c *Config, p *schema.Project, phase Phase) error {
	for _, v := range c.ModelVisitors {
		if err := v.VisitModel(p, phase); err != nil {
			return NewGenerationError("model", "", fmt.Sprintf("visitor %T failed in phase %s", v, phase), err)
		}
	}
	return nil
}

// cleanup removes the outputs of the features that are not enabled.
func cleanup(c *Config) error {
	for _, f := range AllFeatures {
		if f.cleanup == nil {
			continue
		}
		if slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == f.Name }) {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return fmt.Errorf("cleanup feature %q: %w", f.Name, err)
		}
	}
	return nil
}
