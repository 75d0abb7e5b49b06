package crudgen

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
)

type AppDB struct {
	*gorm.DB
}

type ReportDB struct {
	Conn *gorm.DB
}

type Category struct {
	Id               int64
	Name             string
	ParentCategoryId *int64
	CreatedAt        time.Time
	Products         []Product
}

type CategoryViewModel struct {
	Id          int64
	Name        string
	ProductsIds []int64
}

type Product struct {
	Id    int64
	Title string
}

type Ledger struct {
	Name string
}

var layout = Layout{
	Dto:        Package{Dir: "/src/app/dto", Target: projection.Target{PkgPath: "example.com/app/dto", PkgName: "dto"}},
	Service:    Package{Dir: "/src/app/service", Target: projection.Target{PkgPath: "example.com/app/service", PkgName: "service"}},
	Controller: Package{Dir: "/src/app/controller", Target: projection.Target{PkgPath: "example.com/app/controller", PkgName: "controller"}},
	Pages:      "/src/app/views",
}

func universe(values ...any) *typemodel.Snapshot {
	types := lo.Map(values, func(v any, _ int) reflect.Type { return reflect.TypeOf(v) })
	return typemodel.NewSnapshot(typemodel.FromReflect(types...)...)
}

func entity(t *testing.T, u *typemodel.Snapshot, name string) *typemodel.TypeInfo {
	t.Helper()
	found := u.ByName(name)
	require.Len(t, found, 1)
	return found[0]
}

func render(t *testing.T, u *codemodel.Unit) string {
	t.Helper()
	src, err := utils.FormatSource(u.Path, codemodel.Render(u).Bytes())
	require.NoError(t, err)
	return string(src)
}

func unitPaths(out *Output) []string {
	return lo.Map(out.Units, func(u *codemodel.Unit, _ int) string { return u.Path })
}

func TestBuild(t *testing.T) {
	u := universe(AppDB{}, Category{}, CategoryViewModel{}, Product{})
	params := &CrudParams{
		Dtos:   []string{"ViewModel", "CreationDto", "modification"},
		Ids:    []string{"Products"},
		Views:  true,
		Prefix: "/admin",
	}

	out, err := Build(u, Request{Entity: entity(t, u, "Category"), Params: params, Layout: layout}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/src/app/dto/category_dto_gen.go",
		"/src/app/service/category_service_gen.go",
		"/src/app/service/category_service_impl_gen.go",
		"/src/app/controller/category_controller_gen.go",
	}, unitPaths(out))
	assert.Equal(t, []string{
		"/src/app/views/categories/index.html",
		"/src/app/views/categories/create.html",
		"/src/app/views/categories/details.html",
	}, lo.Map(out.Assets, func(a codemodel.Asset, _ int) string { return a.Path }))

	// 已声明的 ViewModel 不再生成
	dto := render(t, out.Units[0])
	assert.Contains(t, dto, "package dto")
	assert.Contains(t, dto, "type CategoryCreationDto struct")
	assert.Contains(t, dto, "type CategoryModificationDto struct")
	assert.NotContains(t, dto, "type CategoryViewModel struct")
	assert.Contains(t, dto, "ProductsIds")

	impl := render(t, out.Units[2])
	assert.Contains(t, impl, `"example.com/app/dto"`)
	assert.Contains(t, impl, "input *dto.CategoryCreationDto")
	assert.Contains(t, impl, `tx.Where("id IN ?", input.ProductsIds).Find(&entity.Products).Error`)
	assert.Contains(t, impl, "toCategoryViewModel")

	ctrl := render(t, out.Units[3])
	assert.Contains(t, ctrl, `"example.com/app/service"`)
	assert.Contains(t, ctrl, "func (c *CategoryController) RegisterPages(")
	assert.Contains(t, ctrl, `"/admin/categories"`)

	assert.Contains(t, string(out.Assets[0].Content), `{{ define "categories/index.html" }}`)
	assert.True(t, out.Model.Companions.CreationDto.Generated)
	assert.False(t, out.Model.Companions.ViewModel.Generated)
}

func TestBuildMinimal(t *testing.T) {
	u := universe(AppDB{}, Product{})

	out, err := Build(u, Request{Entity: entity(t, u, "Product"), Params: &CrudParams{}, Layout: layout}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/src/app/service/product_service_gen.go",
		"/src/app/service/product_service_impl_gen.go",
		"/src/app/controller/product_controller_gen.go",
	}, unitPaths(out), "未请求形状时不生成 DTO 文件")
	assert.Empty(t, out.Assets)

	ctrl := render(t, out.Units[2])
	assert.NotContains(t, ctrl, "RegisterPages")
	assert.Contains(t, ctrl, `group := router.Group("/products")`)
}

func TestBuildRoute(t *testing.T) {
	u := universe(AppDB{}, Product{})
	params := &CrudParams{Route: "goods", Views: true}

	out, err := Build(u, Request{Entity: entity(t, u, "Product"), Params: params, Layout: layout}, nil)
	require.NoError(t, err)
	require.Len(t, out.Assets, 3)
	assert.True(t, strings.HasPrefix(out.Assets[0].Path, "/src/app/views/goods/"))
	assert.Contains(t, render(t, out.Units[2]), `"/pages/goods"`)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		entity string
		params *CrudParams
		check  func(t *testing.T, err error)
	}{
		{
			name:   "缺少主键",
			values: []any{AppDB{}, Ledger{}},
			entity: "Ledger",
			params: &CrudParams{},
			check: func(t *testing.T, err error) {
				assert.True(t, typemodel.IsMetadataError(err))
			},
		},
		{
			name:   "上下文不唯一",
			values: []any{AppDB{}, ReportDB{}, Product{}},
			entity: "Product",
			params: &CrudParams{},
			check: func(t *testing.T, err error) {
				assert.True(t, typemodel.IsContextError(err))
				assert.ErrorIs(t, err, typemodel.ErrAmbiguousContext)
			},
		},
		{
			name:   "指定不存在的上下文",
			values: []any{AppDB{}, Product{}},
			entity: "Product",
			params: &CrudParams{Context: "MissingDB"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, typemodel.ErrNoContext)
			},
		},
		{
			name:   "未知形状",
			values: []any{AppDB{}, Product{}},
			entity: "Product",
			params: &CrudParams{Dtos: []string{"Summary"}},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "Summary")
			},
		},
		{
			name:   "ids 引用标量成员",
			values: []any{AppDB{}, Category{}, Product{}},
			entity: "Category",
			params: &CrudParams{Dtos: []string{"CreationDto"}, Ids: []string{"Name"}},
			check: func(t *testing.T, err error) {
				assert.True(t, typemodel.IsMetadataError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := universe(tt.values...)
			out, err := Build(u, Request{Entity: entity(t, u, tt.entity), Params: tt.params, Layout: layout}, nil)
			require.Error(t, err)
			assert.Nil(t, out, "失败时不返回任何输出")
			tt.check(t, err)
		})
	}
}

func TestBuildContextByName(t *testing.T) {
	u := universe(AppDB{}, ReportDB{}, Product{})
	out, err := Build(u, Request{Entity: entity(t, u, "Product"), Params: &CrudParams{Context: "ReportDB"}, Layout: layout}, nil)
	require.NoError(t, err)
	assert.Contains(t, render(t, out.Units[1]), "s.store.Conn.WithContext(ctx)")
}

func TestShapes(t *testing.T) {
	p := &CrudParams{Dtos: []string{"ViewModel", "creation", "CreationDto", " modificationdto "}}
	kinds, err := p.Shapes()
	require.NoError(t, err)
	assert.Equal(t, []typemodel.ShapeKind{typemodel.ShapeViewModel, typemodel.ShapeCreation, typemodel.ShapeModification}, kinds)

	_, err = (&CrudParams{Dtos: []string{"Patch"}}).Shapes()
	assert.Error(t, err)

	kinds, err = (&CrudParams{}).Shapes()
	require.NoError(t, err)
	assert.Empty(t, kinds)
}
