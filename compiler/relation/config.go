package relation

import "maps"

// DefaultEnumMaxLength is the column length of enums stored by name.
const DefaultEnumMaxLength = 64

// Config holds the lookup tables of the engine.
type Config struct {
	// DBTypes maps primitive type names to column types.
	DBTypes map[string]string
	// Varying lists primitive type names whose column type is sized by the
	// field max length, e.g. "varchar(255)". Fields of these types must
	// declare a max length.
	Varying map[string]bool
	// EnumMaxLength sizes enum columns.
	EnumMaxLength int
}

// DefaultConfig returns a fresh copy of the default tables.
func DefaultConfig() Config {
	return Config{
		DBTypes: map[string]string{
			"Long":    "bigint",
			"long":    "bigint",
			"Boolean": "boolean",
			"boolean": "boolean",
			"Date":    "timestamp",
			"Integer": "int",
			"int":     "int",
			"String":  "varchar",
		},
		Varying:       map[string]bool{"String": true},
		EnumMaxLength: DefaultEnumMaxLength,
	}
}

// clone copies the tables so later changes by the caller do not leak in.
func (c Config) clone() Config {
	out := Config{
		DBTypes:       maps.Clone(c.DBTypes),
		Varying:       maps.Clone(c.Varying),
		EnumMaxLength: c.EnumMaxLength,
	}
	if out.EnumMaxLength <= 0 {
		out.EnumMaxLength = DefaultEnumMaxLength
	}
	return out
}
