package gen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen/golang"
	"github.com/syssam/modelgen/compiler/relation"
	"github.com/syssam/modelgen/contrib/graphql"
)

// Output locations of the feature artifacts, relative to the target.
const (
	GoDir             = "go"
	SnapshotDir       = ".modelgen"
	SnapshotFile      = "snapshot.msgpack"
	GraphQLSchemaFile = "schema.graphql"
	GQLGenConfigFile  = "gqlgen.yml"
)

// Artifacts builds the class of every entity and the model of every enum,
// and returns one artifact per built context. A class that fails to build is
// never rendered: the first failure aborts.
func (g *Graph) Artifacts() ([]*Artifact, error) {
	var artifacts []*Artifact
	for _, m := range g.Project.Modules {
		for _, e := range m.Entities {
			c, err := g.EntityClass(e)
			if err != nil {
				return nil, err
			}
			ctx, err := c.Build()
			if err != nil {
				return nil, NewGenerationError("class", e.Name, "", err)
			}
			artifacts = append(artifacts, &Artifact{
				Path:     JavaPath(c.Package(), c.Name()),
				Template: ClassTemplate,
				Context:  ctx,
			})
		}
		for _, e := range m.Enums {
			em := g.EnumClass(m, e)
			ctx, err := em.Build()
			if err != nil {
				return nil, NewGenerationError("class", e.Name, "", err)
			}
			artifacts = append(artifacts, &Artifact{
				Path:     JavaPath(em.Package(), em.Name()),
				Template: EnumTemplate,
				Context:  ctx,
			})
		}
	}
	return artifacts, nil
}

// JavaPath returns the source path of class name in package pkg.
func JavaPath(pkg, name string) string {
	if pkg == "" {
		return name + ".java"
	}
	return filepath.Join(append(strings.Split(pkg, "."), name+".java")...)
}

// golangArtifacts renders the class and enum contexts a second time, as Go
// types. Contexts are shared read-only with the Java artifacts.
func golangArtifacts(g *Graph, built []*Artifact) ([]*Artifact, error) {
	r := golang.NewRenderer(golang.WithImportPrefix(g.GoImportPrefix))
	var artifacts []*Artifact
	for _, a := range built {
		if a.Template != ClassTemplate && a.Template != EnumTemplate {
			continue
		}
		name, _ := a.Context["name"].(string)
		pkg, _ := a.Context["package"].(string)
		artifacts = append(artifacts, &Artifact{
			Path:     filepath.Join(GoDir, filepath.FromSlash(golang.PackagePath(pkg)), golang.FileName(name)),
			Template: a.Template,
			Context:  a.Context,
			Renderer: r,
		})
	}
	return artifacts, nil
}

// snapshotArtifacts writes the table snapshot and logs the changes since the
// snapshot of the previous run.
func snapshotArtifacts(g *Graph, _ []*Artifact) ([]*Artifact, error) {
	snap, err := relation.TakeSnapshot(g.Relations)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(SnapshotDir, SnapshotFile)
	prev, err := ReadSnapshot(filepath.Join(g.Target, path))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		g.logger().Warn("previous snapshot ignored", zap.Error(err))
	default:
		for _, c := range snap.Diff(prev) {
			g.logger().Info("mapping changed", zap.Stringer("change", c))
		}
	}
	b, err := snap.Encode()
	if err != nil {
		return nil, err
	}
	return []*Artifact{{Path: path, Content: b}}, nil
}

// ReadSnapshot reads the snapshot file at path.
func ReadSnapshot(path string) (*relation.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return relation.DecodeSnapshot(b)
}

// graphqlArtifacts writes the GraphQL schema of the graph and a gqlgen
// configuration pointing at it. With a Go import prefix, gqlgen binds the
// schema types to the generated Go types.
func graphqlArtifacts(g *Graph, _ []*Artifact) ([]*Artifact, error) {
	doc, err := graphql.Schema(g.Relations)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	var autobind []string
	if g.GoImportPrefix != "" {
		r := golang.NewRenderer(golang.WithImportPrefix(g.GoImportPrefix))
		for _, m := range g.Project.Modules {
			if p := r.ImportPath(g.PackageOf(m)); !slices.Contains(autobind, p) {
				autobind = append(autobind, p)
			}
		}
	}
	cfg := graphql.NewGQLGenConfig(GraphQLSchemaFile, autobind...)
	b, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	return []*Artifact{
		{Path: GraphQLSchemaFile, Content: graphql.Print(doc)},
		{Path: GQLGenConfigFile, Content: b},
	}, nil
}
