// Package schema defines the project model consumed by the generator.
//
// A project is a read-only graph: a Project owns ordered Modules, a Module owns
// ordered Entities and Enums, and an Entity owns ordered Fields. Every entity, field
// and enum carries a stable identity (a UUID) that downstream stages use as a map key
// instead of holding pointers back into the graph.
//
// # Quick Start
//
//	core := schema.NewModule("core", "com.example.shop")
//	core.AddEntities(
//	    schema.NewEntity("User",
//	        schema.NewField("id", "Long", schema.Primary()),
//	        schema.NewField("email", "String", schema.Max(128), schema.Unique()),
//	        schema.NewField("orders", "List<Order>"),
//	    ),
//	    schema.NewEntity("Order",
//	        schema.NewField("id", "Long", schema.Primary()),
//	        schema.NewField("user", "User"),
//	    ),
//	)
//	project := schema.NewProject("shop", core)
//	if err := project.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Field types are raw names such as "String", "Long", "Status", "User" or
// "List<Order>". They are resolved later by the compiler/resolve package.
package schema
