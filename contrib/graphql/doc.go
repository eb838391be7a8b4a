// Package graphql exports a classified project as a GraphQL schema.
//
// Schema builds the SDL document with gqlparser: entities become object
// types, enums keep their literals upper-cased and a Query type lists and
// fetches every entity. NewGQLGenConfig writes the gqlgen.yml serving it:
//
//	doc, err := graphql.Schema(engine)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("schema.graphql", graphql.Print(doc), 0o644)
//	graphql.SaveGQLGenConfig("gqlgen.yml", graphql.NewGQLGenConfig("schema.graphql"))
package graphql
