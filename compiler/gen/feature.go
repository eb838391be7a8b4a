package gen

import (
	"os"
	"path/filepath"

	"github.com/syssam/modelgen/compiler/source"
	"github.com/syssam/modelgen/schema"
)

var (
	// FeatureJPA annotates entity classes with their persistence mapping.
	FeatureJPA = Feature{
		Name:        "jpa",
		Stage:       Stable,
		Default:     true,
		Description: "JPA annotates entity classes and fields with javax.persistence mappings",
		Visitors:    []ClassVisitor{JPA{}},
	}

	// FeatureToString generates a toString method for entity classes.
	FeatureToString = Feature{
		Name:        "tostring",
		Stage:       Stable,
		Default:     false,
		Description: "ToString generates a toString method listing the fields of each entity class",
		Visitors: []ClassVisitor{
			ClassVisitorFunc(func(c *source.ClassModel, _ *schema.Entity, _ *Graph) error {
				return c.SetHasToString(true)
			}),
		},
	}

	// FeatureGolang writes a Go struct for every entity and a string type for
	// every enum, next to the Java sources.
	FeatureGolang = Feature{
		Name:        "golang",
		Stage:       Alpha,
		Default:     false,
		Description: "Golang renders entity and enum models as Go types under the go directory",
		Artifacts:   golangArtifacts,
		cleanup: func(c *Config) error {
			return os.RemoveAll(filepath.Join(c.Target, GoDir))
		},
	}

	// FeatureSnapshot stores a snapshot of the relational mapping and logs the
	// changes since the previous run.
	FeatureSnapshot = Feature{
		Name:        "snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Snapshot stores the inferred tables in .modelgen/snapshot.msgpack and reports mapping drift",
		Artifacts:   snapshotArtifacts,
		cleanup: func(c *Config) error {
			return remove(filepath.Join(c.Target, SnapshotDir), SnapshotFile)
		},
	}

	// FeatureGraphQL writes a GraphQL schema of the entities and a gqlgen
	// configuration for it.
	FeatureGraphQL = Feature{
		Name:        "graphql",
		Stage:       Alpha,
		Default:     false,
		Description: "GraphQL writes schema.graphql and gqlgen.yml describing the entities and enums",
		Artifacts:   graphqlArtifacts,
		cleanup: func(c *Config) error {
			for _, name := range []string{GraphQLSchemaFile, GQLGenConfigFile} {
				if err := os.Remove(filepath.Join(c.Target, name)); err != nil && !os.IsNotExist(err) {
					return err
				}
			}
			return nil
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureJPA,
		FeatureToString,
		FeatureGolang,
		FeatureSnapshot,
		FeatureGraphQL,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished, but
	// we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features with a settled output.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the modelgen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// Visitors run on every entity class, before the configured class
	// visitors.
	Visitors []ClassVisitor

	// Artifacts returns the additional files of the feature. It receives the
	// class and enum artifacts already built.
	Artifacts func(*Graph, []*Artifact) ([]*Artifact, error)

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// FeatureByName returns the known feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
