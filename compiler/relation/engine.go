package relation

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/resolve"
	"github.com/syssam/modelgen/schema"
)

// Relation hints allowed on scalar references without a reciprocal field.
var scalarRelations = []string{schema.RelationOneToOne.String(), schema.RelationManyToOne.String()}

// Engine classifies the fields of a type-resolved project.
//
// Classify is a pure function of the project graph and the type index. Init
// classifies every field once and caches the results for Info. The cache is
// read-only after Init returns.
type Engine struct {
	project *schema.Project
	index   *resolve.Index
	cfg     Config
	logger  *zap.Logger
	owners  map[uuid.UUID]*schema.Entity
	infos   map[uuid.UUID]Classification
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine over the project and its resolved types.
func New(project *schema.Project, index *resolve.Index, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		project: project,
		index:   index,
		cfg:     cfg.clone(),
		logger:  zap.NewNop(),
		owners:  make(map[uuid.UUID]*schema.Entity),
		infos:   make(map[uuid.UUID]Classification),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, ent := range project.Entities() {
		for _, f := range ent.Fields {
			e.owners[f.ID] = ent
		}
	}
	return e
}

// Project returns the classified project.
func (e *Engine) Project() *schema.Project { return e.project }

// Index returns the type index the engine reads.
func (e *Engine) Index() *resolve.Index { return e.index }

// Config returns the engine tables.
func (e *Engine) Config() Config { return e.cfg.clone() }

// Owner returns the entity declaring f, or nil.
func (e *Engine) Owner(f *schema.Field) *schema.Entity { return e.owners[f.ID] }

// Init classifies every field of every entity of every module in declaration
// order. It stops at the first error.
func (e *Engine) Init() error {
	return e.project.Walk(func(_ *schema.Module, ent *schema.Entity, f *schema.Field) error {
		c, err := e.Classify(f)
		if err != nil {
			return err
		}
		e.infos[f.ID] = c
		e.logger.Debug("classified field",
			zap.String("field", schema.Qualified(ent, f)),
			zap.Stringer("kind", c.Kind()),
		)
		return nil
	})
}

// Info returns the cached classification of f. It fails with a
// *modelgen.FieldNotClassifiedError if f was not classified by Init.
func (e *Engine) Info(f *schema.Field) (Classification, error) {
	c, ok := e.infos[f.ID]
	if !ok {
		return nil, modelgen.NewFieldNotClassifiedError(schema.Qualified(e.owners[f.ID], f))
	}
	return c, nil
}

// Classify computes the classification of f without touching the cache.
func (e *Engine) Classify(f *schema.Field) (Classification, error) {
	owner := e.owners[f.ID]
	if owner == nil {
		return nil, modelgen.NewFieldNotClassifiedError(f.Name)
	}
	t, err := e.typeOf(f)
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case *resolve.Primitive:
		return e.primitive(owner, f, t)
	case *resolve.Enum:
		return e.enum(owner, f, t)
	case *resolve.EntityRef:
		return e.reference(owner, f, t.Def)
	case *resolve.Generic:
		return e.collection(owner, f, t)
	default:
		return nil, modelgen.NewUnsupportedFieldTypeError(schema.Qualified(owner, f), t.FullName())
	}
}

func (e *Engine) typeOf(f *schema.Field) (resolve.Type, error) {
	t, ok := e.index.Type(f)
	if !ok {
		return nil, modelgen.NewUnresolvedTypeError(f.Type)
	}
	return t, nil
}

func (e *Engine) primitive(owner *schema.Entity, f *schema.Field, t *resolve.Primitive) (Classification, error) {
	dbType, err := e.dbType(owner, f, t)
	if err != nil {
		return nil, err
	}
	c := &Basic{
		Column: Column{
			Name:          ColumnName(f.Name),
			DBType:        dbType,
			Length:        f.Max,
			Nullable:      f.Nullable,
			Unique:        f.Unique,
			Primary:       f.Primary,
			AutoIncrement: f.Primary && t.Name() == "Long",
		},
	}
	if f.Primary {
		c.Identity = true
		c.Generation = GenerationIdentity
	}
	return c, nil
}

func (e *Engine) enum(owner *schema.Entity, f *schema.Field, t *resolve.Enum) (Classification, error) {
	dbType, err := e.dbType(owner, f, t)
	if err != nil {
		return nil, err
	}
	return &Basic{
		Column: Column{
			Name:     ColumnName(f.Name),
			DBType:   dbType,
			Length:   e.cfg.EnumMaxLength,
			Nullable: f.Nullable,
		},
		EnumAsString: true,
	}, nil
}

// dbType returns the column type of a primitive or enum field.
func (e *Engine) dbType(owner *schema.Entity, f *schema.Field, t resolve.Type) (string, error) {
	switch t := t.(type) {
	case *resolve.Enum:
		return fmt.Sprintf("varchar(%d)", e.cfg.EnumMaxLength), nil
	case *resolve.Primitive:
		base := e.cfg.DBTypes[t.Name()]
		switch {
		case base == "":
			return "", modelgen.NewUnsupportedFieldTypeError(schema.Qualified(owner, f), t.Name())
		case e.cfg.Varying[t.Name()] && !f.HasMax():
			return "", modelgen.NewMissingMaxLengthError(owner.Name, f.Name)
		case e.cfg.Varying[t.Name()]:
			return fmt.Sprintf("%s(%d)", base, f.Max), nil
		default:
			return base, nil
		}
	default:
		return "", modelgen.NewUnsupportedFieldTypeError(schema.Qualified(owner, f), t.FullName())
	}
}

// reference classifies a scalar reference to target.
func (e *Engine) reference(owner *schema.Entity, f *schema.Field, target *schema.Entity) (Classification, error) {
	back, collection, err := e.reciprocal(owner, f, target)
	if err != nil {
		return nil, err
	}
	hint := f.Relation
	if back != nil {
		hint = schema.RelationOneToOne
		if collection {
			hint = schema.RelationManyToOne
		}
	}
	switch hint {
	case schema.RelationUnspecified:
		return nil, modelgen.NewMissingRelationError(schema.Qualified(owner, f), scalarRelations)
	case schema.RelationOneToOne, schema.RelationManyToOne:
	default:
		return nil, modelgen.NewInvalidRelationError(schema.Qualified(owner, f), hint.String(), scalarRelations)
	}
	jc, err := e.joinColumn(target, owner.Name, target.Name, f.Nullable)
	if err != nil {
		return nil, err
	}
	if hint == schema.RelationOneToOne {
		return &OneToOne{JoinColumn: jc, Fetch: fetchOf(f.Lazy)}, nil
	}
	return &ManyToOne{JoinColumn: jc, Fetch: fetchOf(f.Lazy), Optional: f.Nullable}, nil
}

// collection classifies a generic field holding entities.
func (e *Engine) collection(owner *schema.Entity, f *schema.Field, t *resolve.Generic) (Classification, error) {
	ref, ok := t.Parameter.(*resolve.EntityRef)
	if !ok {
		return nil, modelgen.NewUnsupportedParameterError(schema.Qualified(owner, f), t.Parameter.FullName())
	}
	target := ref.Def
	back, collection, err := e.reciprocal(owner, f, target)
	if err != nil {
		return nil, err
	}
	if back != nil && !collection {
		return &OneToMany{MappedBy: FieldRef{Entity: target.Name, Field: back.Name}}, nil
	}
	jt, err := e.joinTable(owner, target, f, back != nil)
	if err != nil {
		return nil, err
	}
	return &ManyToMany{JoinTable: jt, Fetch: fetchOf(f.Lazy)}, nil
}

// reciprocal returns the field of target referring back to owner, either as a
// scalar or as a collection. Self references are legal: f itself is skipped.
func (e *Engine) reciprocal(owner *schema.Entity, f *schema.Field, target *schema.Entity) (*schema.Field, bool, error) {
	var (
		found      []*schema.Field
		collection bool
	)
	for _, tf := range target.Fields {
		if tf.ID == f.ID {
			continue
		}
		t, ok := e.index.Type(tf)
		if !ok {
			continue
		}
		if ent, coll := resolve.Entity(t); ent != nil && ent.ID == owner.ID {
			found = append(found, tf)
			collection = coll
		}
	}
	switch len(found) {
	case 0:
		return nil, false, nil
	case 1:
		return found[0], collection, nil
	default:
		names := make([]string, len(found))
		for i, tf := range found {
			names[i] = tf.Name
		}
		return nil, false, modelgen.NewAmbiguousRelationError(schema.Qualified(owner, f), target.Name, names)
	}
}

// joinColumn returns a column referencing the primary key of target. The
// foreign key is named after the (source, fkTarget) table pair.
func (e *Engine) joinColumn(target *schema.Entity, source, fkTarget string, nullable bool) (JoinColumn, error) {
	pk := target.PrimaryField()
	if pk == nil {
		return JoinColumn{}, modelgen.NewMissingPrimaryKeyError(target.Name)
	}
	t, err := e.typeOf(pk)
	if err != nil {
		return JoinColumn{}, err
	}
	dbType, err := e.dbType(target, pk, t)
	if err != nil {
		return JoinColumn{}, err
	}
	name := ForeignIDColumn(target.Name, pk.Name)
	return JoinColumn{
		Name:           name,
		ReferencedName: ColumnName(pk.Name),
		DBType:         dbType,
		TargetTable:    TableName(target.Name),
		ForeignKey:     ForeignKeyName(source, fkTarget, name),
		Nullable:       nullable,
	}, nil
}

// joinTable synthesizes the join table of a many-to-many field of owner. Both
// sides of a bidirectional relation name the table and its foreign keys after
// the entity sorting first, so they agree on one table with swapped columns.
func (e *Engine) joinTable(owner, target *schema.Entity, f *schema.Field, bidirectional bool) (JoinTable, error) {
	first, second := owner.Name, target.Name
	if bidirectional && second < first {
		first, second = second, first
	}
	jc, err := e.joinColumn(owner, first, second, f.Nullable)
	if err != nil {
		return JoinTable{}, err
	}
	inverse, err := e.joinColumn(target, first, second, f.Nullable)
	if err != nil {
		return JoinTable{}, err
	}
	return JoinTable{
		Name:              JoinTableName(first, second),
		JoinColumn:        jc,
		InverseJoinColumn: inverse,
	}, nil
}
