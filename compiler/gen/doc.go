// Package gen generates source files from a project model.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Project model (schema.Project, loaded by compiler/load)
//	        ↓
//	   Model visitors (init, edit)
//	        ↓
//	   Graph: types resolved (compiler/resolve), fields classified (compiler/relation)
//	        ↓
//	   Class models (compiler/source), annotated by class visitors such as JPA
//	        ↓
//	   Artifacts, rendered and written in parallel by TemplateWriter
//
// # Key Types
//
//   - Config: generation settings built with functional options
//   - Graph: the validated project with its type index and relation engine
//   - Feature: an optional output such as Go types or the GraphQL schema
//   - Renderer: turns a built class context into file content
//
// # Usage
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("src/main/java"),
//	    gen.WithFeatures(gen.FeatureGolang),
//	)
//	if err != nil {
//	    return err
//	}
//	metrics, err := gen.Generate(ctx, cfg, project)
//
// # Errors
//
// Failures are reported as *ModelError for defects of the project model,
// *ConfigError for invalid options and *GenerationError for rendering and
// writing failures. Use IsModelError, IsConfigError and IsGenerationError to
// tell them apart.
package gen
