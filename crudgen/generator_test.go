package crudgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donutnomad/crudgen/plugin"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// 本地替换的 gorm 只提供 DB 类型
const shopGoMod = `module example.com/shop

go 1.22

require gorm.io/gorm v0.0.0

replace gorm.io/gorm => ./gormstub
`

func TestNewGenerator(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, Name, g.Name())
	assert.Equal(t, []string{AnnotationName}, g.Annotations())

	names := lo.Map(g.ParamDefs(), func(d plugin.ParamDef, _ int) string { return d.Name })
	assert.Equal(t, []string{"context", "dtos", "ids", "views", "route", "prefix", "dto", "service", "controller", "pages"}, names)

	registry := plugin.NewRegistry()
	registry.MustRegister(g)
	help := plugin.FormatHelpText(registry)
	assert.Contains(t, help, "@Crud - crud")
	assert.Contains(t, help, "prefix [默认: /pages]")
}

func TestGenerate(t *testing.T) {
	if testing.Short() {
		t.Skip("需要 go 工具链")
	}

	root := writeModule(t, map[string]string{
		"go.mod":            shopGoMod,
		"gormstub/go.mod":   "module gorm.io/gorm\n\ngo 1.22\n",
		"gormstub/gorm.go":  "package gorm\n\ntype DB struct{}\n",
		"crudgen.yaml":      "prefix: /admin\n",
		"store/store.go":    "package store\n\nimport \"gorm.io/gorm\"\n\ntype ShopDB struct {\n\t*gorm.DB\n}\n",
		"model/product.go":  "package model\n\n// @Crud(dtos=[CreationDto], views=true)\ntype Product struct {\n\tId    int64\n\tTitle string\n}\n",
		"model/ignored.go":  "package model\n\ntype Ignored struct {\n\tName string\n}\n",
		"controller/doc.go": "package handlers\n",
	})

	registry := plugin.NewRegistry()
	registry.MustRegister(NewGenerator())
	opts := &plugin.RunOptions{Registry: registry, Patterns: []string{filepath.Join(root, "model") + "/..."}}

	stats, err := plugin.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TargetCount)
	assert.Equal(t, 7, stats.FileCount)

	read := func(rel string) string {
		data, err := os.ReadFile(filepath.Join(root, rel))
		require.NoError(t, err)
		return string(data)
	}
	dto := read("dto/product_dto_gen.go")
	assert.Contains(t, dto, "// Code generated by crudgen. DO NOT EDIT.")
	assert.Contains(t, dto, "type ProductCreationDto struct")

	impl := read("service/product_service_impl_gen.go")
	assert.Contains(t, impl, `"example.com/shop/store"`)
	assert.Contains(t, impl, `"example.com/shop/dto"`)

	ctrl := read("controller/product_controller_gen.go")
	assert.Contains(t, ctrl, "package handlers")
	assert.Contains(t, ctrl, `"/admin/products"`)

	assert.FileExists(t, filepath.Join(root, "views", "products", "index.html"))
	assert.NoFileExists(t, filepath.Join(root, "dto", "ignored_dto_gen.go"))

	stats, err = plugin.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FileCount)
	assert.Equal(t, 7, stats.UnchangedCount)
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("需要 go 工具链")
	}

	root := writeModule(t, map[string]string{
		"go.mod":           "module example.com/shop\n\ngo 1.22\n",
		"model/product.go": "package model\n\n// @Crud\ntype Product struct {\n\tId    int64\n\tTitle string\n}\n",
	})

	registry := plugin.NewRegistry()
	registry.MustRegister(NewGenerator())
	stats, err := plugin.Run(context.Background(), &plugin.RunOptions{Registry: registry, Patterns: []string{root + "/..."}})
	require.Error(t, err)
	assert.Equal(t, 0, stats.FileCount)
	assert.NoDirExists(t, filepath.Join(root, "service"))
	assert.NoDirExists(t, filepath.Join(root, "controller"))
}

func TestGenerateOutsideModule(t *testing.T) {
	g := NewGenerator()
	dir := t.TempDir()
	result, err := g.Generate(&plugin.GenerateContext{
		Context: context.Background(),
		Targets: []*plugin.AnnotatedTarget{{
			Target:      &plugin.Target{Name: "Product", PackageName: "model", FilePath: filepath.Join(dir, "product.go")},
			Annotations: []*plugin.Annotation{{Name: AnnotationName, Params: map[string]string{}}},
		}},
	})
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Definitions)
}
