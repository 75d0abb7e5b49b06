package crudgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donutnomad/crudgen/plugin"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg, "文件不存在时返回空配置")

	content := `context: AppDB
dtos: [ViewModel, CreationDto]
views: true
prefix: /admin
layout:
  dto: api/dto
  pages: web/templates
irregulars:
  person: people
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644))

	cfg, err = LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "AppDB", cfg.Context)
	assert.Equal(t, []string{"ViewModel", "CreationDto"}, cfg.Dtos)
	require.NotNil(t, cfg.Views)
	assert.True(t, *cfg.Views)
	assert.Equal(t, "/admin", cfg.Prefix)
	assert.Equal(t, LayoutConfig{Dto: "api/dto", Pages: "web/templates"}, cfg.Layout)
	assert.Equal(t, map[string]string{"person": "people"}, cfg.Irregulars)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("views: [oops"), 0o644))
	_, err = LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfigApply(t *testing.T) {
	yes := true
	cfg := &Config{
		Context: "AppDB",
		Dtos:    []string{"ViewModel"},
		Views:   &yes,
		Prefix:  "/admin",
		Layout:  LayoutConfig{Dto: "api/dto", Controller: "http"},
	}

	tests := []struct {
		name   string
		params map[string]string
		want   CrudParams
	}{
		{
			name:   "注解未给出时使用配置",
			params: map[string]string{},
			want: CrudParams{
				Context: "AppDB", Dtos: []string{"ViewModel"}, Views: true, Prefix: "/admin",
				Dto: "api/dto", Service: "service", Controller: "http", Pages: "views",
			},
		},
		{
			name:   "注解显式给出时优先",
			params: map[string]string{"context": "OtherDB", "views": "false", "dto": "dto", "dtos": ""},
			want: CrudParams{
				Context: "OtherDB", Views: false, Prefix: "/admin",
				Dto: "dto", Service: "service", Controller: "http", Pages: "views",
			},
		},
	}

	g := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := &plugin.Annotation{Name: AnnotationName, Params: tt.params}
			params := new(CrudParams)
			require.NoError(t, plugin.ParseAnnotationParams(ann, params, g.ParamDefs()))
			cfg.Apply(params, ann)
			assert.Equal(t, tt.want, *params)
		})
	}
}
