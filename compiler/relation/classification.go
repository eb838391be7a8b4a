package relation

// FetchMode is the loading strategy of a relationship.
type FetchMode string

// Fetch modes.
const (
	FetchEager FetchMode = "EAGER"
	FetchLazy  FetchMode = "LAZY"
)

// GenerationType is the primary key generation strategy.
type GenerationType string

// GenerationIdentity delegates key generation to an identity column.
const GenerationIdentity GenerationType = "IDENTITY"

// Kind identifies the variant of a Classification.
type Kind uint8

// Classification kinds.
const (
	KindBasic Kind = iota + 1
	KindOneToOne
	KindManyToOne
	KindOneToMany
	KindManyToMany
)

// String returns the relation name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "Basic"
	case KindOneToOne:
		return "OneToOne"
	case KindManyToOne:
		return "ManyToOne"
	case KindOneToMany:
		return "OneToMany"
	case KindManyToMany:
		return "ManyToMany"
	default:
		return "Invalid"
	}
}

// Classification describes how a field is stored. The set of implementations is
// closed: *Basic, *OneToOne, *ManyToOne, *OneToMany and *ManyToMany.
type Classification interface {
	Kind() Kind
	classification()
}

type (
	// Column is a plain table column.
	Column struct {
		Name          string
		DBType        string
		Length        int
		Nullable      bool
		Unique        bool
		Primary       bool
		AutoIncrement bool
	}

	// Basic is a scalar column holding a primitive or an enum.
	Basic struct {
		Column
		// Identity is set for primary fields.
		Identity   bool
		Generation GenerationType
		// EnumAsString is set for enums stored by literal name.
		EnumAsString bool
	}

	// JoinColumn is a foreign key column referencing the primary key of a
	// target table.
	JoinColumn struct {
		Name           string
		ReferencedName string
		DBType         string
		TargetTable    string
		ForeignKey     string
		Nullable       bool
	}

	// JoinTable is an auxiliary table linking two entities.
	JoinTable struct {
		Name              string
		JoinColumn        JoinColumn
		InverseJoinColumn JoinColumn
	}

	// FieldRef names a field of an entity.
	FieldRef struct {
		Entity string
		Field  string
	}

	// OneToOne is a scalar reference whose reciprocal is scalar too.
	OneToOne struct {
		JoinColumn JoinColumn
		Fetch      FetchMode
	}

	// ManyToOne is a scalar reference whose reciprocal is a collection.
	ManyToOne struct {
		JoinColumn JoinColumn
		Fetch      FetchMode
		Optional   bool
	}

	// OneToMany is a collection owned by the foreign key of the reciprocal
	// scalar field.
	OneToMany struct {
		MappedBy FieldRef
	}

	// ManyToMany is a collection stored in a join table.
	ManyToMany struct {
		JoinTable JoinTable
		Fetch     FetchMode
	}
)

func (*Basic) Kind() Kind      { return KindBasic }
func (*OneToOne) Kind() Kind   { return KindOneToOne }
func (*ManyToOne) Kind() Kind  { return KindManyToOne }
func (*OneToMany) Kind() Kind  { return KindOneToMany }
func (*ManyToMany) Kind() Kind { return KindManyToMany }

func (*Basic) classification()      {}
func (*OneToOne) classification()   {}
func (*ManyToOne) classification()  {}
func (*OneToMany) classification()  {}
func (*ManyToMany) classification() {}

// String returns the "Entity.field" form.
func (r FieldRef) String() string { return r.Entity + "." + r.Field }

func fetchOf(lazy bool) FetchMode {
	if lazy {
		return FetchLazy
	}
	return FetchEager
}
