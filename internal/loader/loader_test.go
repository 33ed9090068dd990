package loader

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoadPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.moo")
	content := []byte("MOO test data")
	assert.NoError(t, os.WriteFile(path, content, 0o644))

	data, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, string(content), string(data))
}

func TestLoadGzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.MOO.GZ")
	content := []byte("MOO test data")

	file, err := os.Create(path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(file)
	_, err = gz.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, file.Close())

	data, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, string(content), string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.moo"))
	assert.Error(t, err)
}

func TestLoadCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.moo.gz")
	assert.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
