// Package relation infers how entity fields map to relational storage.
//
// Every field of a type-resolved project is classified into exactly one of
// Basic, OneToOne, ManyToOne, OneToMany or ManyToMany. References between
// entities are disambiguated by looking for the reciprocal field in the target
// entity:
//
//	User.orders  List<Order>   OneToMany{MappedBy: Order.user}
//	Order.user   User          ManyToOne, join column user_id
//
// Table, column, foreign key and join table names are derived by the exported
// naming functions so DDL and annotation generators agree on them.
package relation
