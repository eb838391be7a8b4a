package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres", Postgres},
		{"PostgreSQL", Postgres},
		{" pg ", Postgres},
		{"mariadb", MySQL},
		{"sqlite3", SQLite},
		{"sqlite", SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Normalize("oracle")
	assert.EqualError(t, err, `dialect: unsupported dialect "oracle"`)
}
