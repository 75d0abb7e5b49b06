package controllergen

import (
	"reflect"
	"testing"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ProductCategory struct {
	Id   int64
	Name string
}

type ProductCategoryCreationDto struct {
	Name string
}

type Author struct {
	ID   uuid.UUID
	Name string
}

type Country struct {
	Code string `crud:"key"`
	Name string
}

type Level uint8

type Grade struct {
	Level Level `gorm:"primaryKey"`
	Title string
}

var opts = Options{
	Dir:     "controller",
	Package: projection.Target{PkgPath: "example.com/app/controller", PkgName: "controller"},
	Service: projection.Target{PkgPath: "example.com/app/service", PkgName: "service"},
}

func newModel(t *testing.T, name string, values ...any) *projection.Model {
	t.Helper()
	types := lo.Map(values, func(v any, _ int) reflect.Type { return reflect.TypeOf(v) })
	u := typemodel.NewSnapshot(typemodel.FromReflect(types...)...)
	d, err := typemodel.Describe(u, u.ByName(name)[0])
	require.NoError(t, err)
	m, err := projection.NewModel(u, d, typemodel.ResolveCompanions(u, d.Info), nil)
	require.NoError(t, err)
	return m
}

func render(t *testing.T, u *codemodel.Unit) string {
	t.Helper()
	src, err := utils.FormatSource(u.Path, codemodel.Render(u).Bytes())
	require.NoError(t, err)
	return string(src)
}

func TestRoutes(t *testing.T) {
	routes := lo.Map(Routes("product_categories"), func(r Route, _ int) string { return r.Method + " " + r.Path })
	assert.Equal(t, []string{
		"POST /product_categories",
		"GET /product_categories",
		"GET /product_categories/filter",
		"GET /product_categories/:id",
		"PUT /product_categories/:id",
		"DELETE /product_categories/:id",
	}, routes)

	assert.Equal(t, "product_categories", Resource("ProductCategory", ""))
	assert.Equal(t, "catalog", Resource("ProductCategory", "catalog"))
}

func TestEmitController(t *testing.T) {
	m := newModel(t, "ProductCategory", ProductCategory{}, ProductCategoryCreationDto{})

	unit := Emit(m, opts)
	assert.Equal(t, "controller/product_category_controller_gen.go", unit.Path)
	out := render(t, unit)

	assert.Contains(t, out, "service service.ProductCategoryService")
	assert.Contains(t, out, "func NewProductCategoryController(svc service.ProductCategoryService) *ProductCategoryController {")
	assert.Contains(t, out, `group := router.Group("/product_categories")`)
	assert.Contains(t, out, `group.POST("", c.Create)`)
	assert.Contains(t, out, `group.GET("/filter", c.Filter)`)
	assert.Contains(t, out, `group.DELETE("/:id", c.Delete)`)
	assert.Contains(t, out, "var input controllergen.ProductCategoryCreationDto")
	assert.Contains(t, out, "var input controllergen.ProductCategory\n")
	assert.Contains(t, out, "crud.BindPagination(ctx)")
	assert.Contains(t, out, "crud.AbortWithError(ctx, err)")
	assert.Contains(t, out, "ctx.JSON(http.StatusCreated, result)")
	assert.Contains(t, out, `id, err := parseProductCategoryKey(ctx.Param("id"))`)
	assert.Contains(t, out, "digits, err := crud.DecimalKey(raw)")
	assert.Contains(t, out, "return cast.ToInt64E(digits)")
	assert.NotContains(t, out, "RegisterPages")
}

func TestEmitPages(t *testing.T) {
	m := newModel(t, "ProductCategory", ProductCategory{})
	o := opts
	o.Views = true

	out := render(t, Emit(m, o))
	assert.Contains(t, out, `group := router.Group("/pages/product_categories")`)
	assert.Contains(t, out, `group.POST("/create", c.CreateSubmit)`)
	assert.Contains(t, out, `"product_categories/index.html"`)
	assert.Contains(t, out, `"product_categories/details.html"`)
	assert.Contains(t, out, `ctx.Redirect(http.StatusSeeOther, "/pages/product_categories")`)
}

func TestKeyParser(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		value  any
		want   []string
	}{
		{"uuid", "Author", Author{}, []string{"return uuid.Parse(raw)"}},
		{"string", "Country", Country{}, []string{"return raw, nil"}},
		{"enum", "Grade", Grade{}, []string{
			"digits, err := crud.DecimalKey(raw)",
			"if err != nil {\nreturn 0, err\n}",
			"v, err := cast.ToUint8E(digits)",
			"return controllergen.Level(v), err",
		}},
		{"int64", "ProductCategory", ProductCategory{}, []string{
			"digits, err := crud.DecimalKey(raw)",
			"if err != nil {\nreturn 0, err\n}",
			"return cast.ToInt64E(digits)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, tt.entity, tt.value)
			imports := codemodel.NewImportSet("example.com/app/controller", m.Namer)
			assert.Equal(t, tt.want, KeyParser(m.Key(), imports))
		})
	}
}

func TestCastFunc(t *testing.T) {
	assert.Equal(t, "ToIntE", castFunc("int"))
	assert.Equal(t, "ToUint16E", castFunc("uint16"))
	assert.Equal(t, "ToFloat64E", castFunc("float64"))
	assert.Equal(t, "ToBoolE", castFunc("bool"))
}
