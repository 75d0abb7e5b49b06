package codemodel

import (
	"testing"

	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/stretchr/testify/assert"
)

func TestImportSetQualify(t *testing.T) {
	s := NewImportSet("example.com/app/dto", nil)

	assert.Equal(t, "", s.Qualify("example.com/app/dto"))
	assert.Equal(t, "", s.Qualify(""))
	assert.Equal(t, "models", s.Qualify("example.com/app/models"))
	assert.Equal(t, "models", s.Qualify("example.com/app/models"))
	assert.Equal(t, "models2", s.Qualify("example.com/legacy/models"))
	assert.Equal(t, "time", s.Qualify("time"))

	list := s.List()
	assert.Equal(t, []Import{
		{Path: "example.com/app/models", Name: "models"},
		{Path: "example.com/legacy/models", Name: "models2", Alias: true},
		{Path: "time", Name: "time"},
	}, list)
}

func TestImportSetResolver(t *testing.T) {
	s := NewImportSet("example.com/app/service", func(path string) string {
		if path == "gopkg.in/yaml.v3" {
			return "yaml"
		}
		return typemodel.LastSegment(path)
	})
	s.Reserve("ctx")

	assert.Equal(t, "yaml", s.Qualify("gopkg.in/yaml.v3"))
	assert.Equal(t, "ctx2", s.Qualify("example.com/app/ctx"))
	assert.True(t, s.Has("gopkg.in/yaml.v3"))
	assert.False(t, s.Has("time"))

	imp := s.List()
	assert.True(t, imp[1].Alias, "yaml.v3 需要显式别名")
}

func TestImportSetSpell(t *testing.T) {
	s := NewImportSet("example.com/app/dto", nil)

	ref := typemodel.SliceOf(typemodel.PointerTo(typemodel.Named("example.com/app/models", "Product")))
	assert.Equal(t, "[]*models.Product", s.Spell(ref))
	assert.Equal(t, "StudentDto", s.Type("example.com/app/dto", "StudentDto"))
	assert.Equal(t, "uuid.UUID", s.Type("github.com/google/uuid", "UUID"))
	assert.Equal(t, "map[string]int", s.Spell(typemodel.MapOf(typemodel.Basic("string"), typemodel.Basic("int"))))
}
