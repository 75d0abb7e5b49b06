package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")

	src := "package demo\nimport \"fmt\"\nfunc Hello( ) string { return  \"hi\" }\n"
	written, err := WriteFormat(path, []byte(src))
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nfunc Hello() string { return \"hi\" }\n", string(data))

	written, err = WriteFormat(path, []byte(src))
	require.NoError(t, err)
	assert.False(t, written)
}

func TestWriteFormatInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.go")

	src := "package demo\nfunc {"
	_, err := WriteFormat(path, []byte(src))
	require.Error(t, err)

	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Equal(t, src, string(data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "page.html")

	written, err := WriteFile(path, []byte("a"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteFile(path, []byte("a"))
	require.NoError(t, err)
	assert.False(t, written, "内容不变时不写入")

	written, err = WriteFile(path, []byte("b"))
	require.NoError(t, err)
	assert.True(t, written)
}
