package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/modelgen/compiler/source"
)

type stubRenderer map[string]string

func (s stubRenderer) Render(name string, ctx source.Context) ([]byte, error) {
	out, ok := s[name]
	if !ok {
		return nil, assert.AnError
	}
	return []byte(out), nil
}

func TestTemplateWriter(t *testing.T) {
	t.Run("writes raw and rendered artifacts", func(t *testing.T) {
		dir := t.TempDir()
		core, logs := observer.New(zap.DebugLevel)
		w := NewTemplateWriter(stubRenderer{"class": "class A {}\n"}, dir).
			WithWorkers(2).
			WithHeader("// generated").
			WithLogger(zap.New(core))
		err := w.WriteAll(context.Background(), []*Artifact{
			{Path: filepath.Join("com", "A.java"), Template: "class"},
			{Path: "notes.txt", Content: []byte("raw")},
			{Path: filepath.Join("go", "a.go"), Template: "class", Renderer: stubRenderer{"class": "package a\nimport \"fmt\"\nvar  X = fmt.Sprint(1)\n"}},
		})
		require.NoError(t, err)

		b, err := os.ReadFile(filepath.Join(dir, "com", "A.java"))
		require.NoError(t, err)
		assert.Equal(t, "// generated\n\nclass A {}\n", string(b))

		b, err = os.ReadFile(filepath.Join(dir, "notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "raw", string(b))

		b, err = os.ReadFile(filepath.Join(dir, "go", "a.go"))
		require.NoError(t, err)
		assert.Equal(t, "// generated\n\npackage a\n\nimport \"fmt\"\n\nvar X = fmt.Sprint(1)\n", string(b))

		m := w.Metrics()
		assert.Equal(t, 3, m.FilesGenerated)
		assert.Positive(t, m.TotalBytes)
		assert.Equal(t, 3, logs.FilterMessage("file written").Len())
	})

	t.Run("format failure keeps the unformatted file", func(t *testing.T) {
		dir := t.TempDir()
		w := NewTemplateWriter(stubRenderer{"class": "package a\nfunc {"}, dir)
		err := w.WriteAll(context.Background(), []*Artifact{{Path: "bad.go", Template: "class"}})
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.FileExists(t, filepath.Join(dir, "bad.go.error"))
		assert.NoFileExists(t, filepath.Join(dir, "bad.go"))
	})

	t.Run("render failure", func(t *testing.T) {
		w := NewTemplateWriter(stubRenderer{}, t.TempDir())
		err := w.WriteAll(context.Background(), []*Artifact{{Path: "A.java", Template: "class"}})
		require.Error(t, err)
		var gerr *GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, "render", gerr.Phase)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("no renderer", func(t *testing.T) {
		w := NewTemplateWriter(nil, t.TempDir())
		err := w.WriteAll(context.Background(), []*Artifact{{Path: "A.java", Template: "class"}})
		assert.ErrorContains(t, err, `no renderer for template "class"`)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := NewTemplateWriter(stubRenderer{"class": "x"}, t.TempDir())
		err := w.WriteAll(ctx, []*Artifact{{Path: "A.java", Template: "class"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
