package controllergen

import (
	"fmt"
	"path/filepath"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/crudgen/servicegen"
	"github.com/donutnomad/crudgen/viewgen"
)

const ginPath = "github.com/gin-gonic/gin"

// DefaultPagesPrefix 页面路由前缀
const DefaultPagesPrefix = "/pages"

// Options 输出位置与路由
type Options struct {
	Dir     string
	Package projection.Target
	Service projection.Target

	Route       string // 资源路由，默认为复数蛇形实体名
	Views       bool   // 生成页面处理器
	PagesPrefix string
}

// Route 接口路由
type Route struct {
	Method  string
	Path    string
	Handler string
}

// Routes 与服务方法一一对应的接口路由
func Routes(resource string) []Route {
	base := "/" + resource
	return []Route{
		{Method: "POST", Path: base, Handler: "Create"},
		{Method: "GET", Path: base, Handler: "GetAll"},
		{Method: "GET", Path: base + "/filter", Handler: "Filter"},
		{Method: "GET", Path: base + "/:id", Handler: "GetByID"},
		{Method: "PUT", Path: base + "/:id", Handler: "Update"},
		{Method: "DELETE", Path: base + "/:id", Handler: "Delete"},
	}
}

// PageRoutes 页面路由
func PageRoutes(prefix, resource string) []Route {
	base := prefix + "/" + resource
	return []Route{
		{Method: "GET", Path: base, Handler: "IndexPage"},
		{Method: "GET", Path: base + "/create", Handler: "CreatePage"},
		{Method: "POST", Path: base + "/create", Handler: "CreateSubmit"},
		{Method: "GET", Path: base + "/:id", Handler: "DetailsPage"},
	}
}

// Resource 资源名: 显式路由优先，否则为复数蛇形实体名
func Resource(entity, route string) string {
	if route != "" {
		return route
	}
	return utils.ToResourceName(entity)
}

// ControllerName 控制器类型名
func ControllerName(entity string) string {
	return entity + "Controller"
}

type renderer struct {
	m        *projection.Model
	imports  *codemodel.ImportSet
	opts     Options
	resource string
	name     string
	service  string
	gin      string
	crud     string
	http     string
	parseKey string
}

// Emit 生成 gin 控制器
func Emit(m *projection.Model, opts Options) *codemodel.Unit {
	if opts.PagesPrefix == "" {
		opts.PagesPrefix = DefaultPagesPrefix
	}
	path := filepath.Join(opts.Dir, utils.ToSnakeCase(m.Entity.Name)+"_controller_gen.go")
	unit := codemodel.NewUnit(path, opts.Package.PkgName, opts.Package.PkgPath, m.Namer)
	unit.Imports.Reserve("c", "ctx", "svc", "group", "router", "input", "result", "id", "err", "raw", "v", "page", "item")

	r := &renderer{
		m:        m,
		imports:  unit.Imports,
		opts:     opts,
		resource: Resource(m.Entity.Name, opts.Route),
		name:     ControllerName(m.Entity.Name),
		service:  unit.Imports.Type(opts.Service.PkgPath, servicegen.ServiceName(m.Entity.Name)),
		gin:      unit.Imports.Qualify(ginPath),
		crud:     unit.Imports.Qualify(codemodel.RuntimePath),
		http:     unit.Imports.Qualify("net/http"),
		parseKey: "parse" + m.Entity.Name + "Key",
	}

	unit.Add(
		&codemodel.Struct{
			Doc:    fmt.Sprintf("%s %s 的 HTTP 接口", r.name, m.Entity.Name),
			Name:   r.name,
			Fields: []codemodel.StructField{{Name: "service", Type: r.service}},
		},
		&codemodel.Func{
			Name:    "New" + r.name,
			Params:  []codemodel.Param{{Name: "svc", Type: r.service}},
			Results: []codemodel.Param{{Type: "*" + r.name}},
			Body:    []string{fmt.Sprintf("return &%s{service: svc}", r.name)},
		},
		r.register("Register", "注册接口路由", "/"+r.resource, Routes(r.resource)),
		r.create(),
		r.getAll(),
		r.filter(),
		r.getByID(),
		r.update(),
		r.remove(),
	)
	if opts.Views {
		unit.Add(
			r.register("RegisterPages", "注册页面路由", opts.PagesPrefix+"/"+r.resource, PageRoutes(opts.PagesPrefix, r.resource)),
			r.indexPage(),
			r.createPage(),
			r.createSubmit(),
			r.detailsPage(),
		)
	}
	unit.Add(&codemodel.Func{
		Name:    r.parseKey,
		Params:  []codemodel.Param{{Name: "raw", Type: "string"}},
		Results: []codemodel.Param{{Type: unit.Imports.Spell(m.Key().Type)}, {Type: "error"}},
		Body:    KeyParser(m.Key(), unit.Imports),
	})
	return unit
}

func (r *renderer) handler(name string, body ...string) *codemodel.Func {
	return &codemodel.Func{
		Name:   name,
		Recv:   &codemodel.Param{Name: "c", Type: "*" + r.name},
		Params: []codemodel.Param{{Name: "ctx", Type: "*" + r.gin + ".Context"}},
		Body:   body,
	}
}

func (r *renderer) register(name, doc, base string, routes []Route) *codemodel.Func {
	body := []string{fmt.Sprintf("group := router.Group(%q)", base)}
	for _, route := range routes {
		body = append(body, fmt.Sprintf("group.%s(%q, c.%s)", route.Method, route.Path[len(base):], route.Handler))
	}
	return &codemodel.Func{
		Doc:    name + " " + doc,
		Name:   name,
		Recv:   &codemodel.Param{Name: "c", Type: "*" + r.name},
		Params: []codemodel.Param{{Name: "router", Type: r.gin + ".IRouter"}},
		Body:   body,
	}
}

func (r *renderer) badRequest() string {
	return fmt.Sprintf("ctx.AbortWithStatusJSON(%s.StatusBadRequest, %s.H{\"error\": err.Error()})\nreturn", r.http, r.gin)
}

func (r *renderer) bind(kind typemodel.ShapeKind) []string {
	shape := r.m.Shape(kind).Type
	return []string{
		"var input " + r.imports.Spell(shape.Ref()),
		fmt.Sprintf("if err := ctx.ShouldBind(&input); err != nil {\n%s\n}", r.badRequest()),
	}
}

func (r *renderer) parseID() []string {
	return []string{
		fmt.Sprintf("id, err := %s(ctx.Param(\"id\"))", r.parseKey),
		fmt.Sprintf("if err != nil {\n%s\n}", r.badRequest()),
	}
}

func (r *renderer) call(expr string) string {
	return fmt.Sprintf("result, err := c.service.%s\nif err != nil {\n%s.AbortWithError(ctx, err)\nreturn\n}", expr, r.crud)
}

func (r *renderer) respond(status string) string {
	return fmt.Sprintf("ctx.JSON(%s.%s, result)", r.http, status)
}

func (r *renderer) create() *codemodel.Func {
	body := r.bind(typemodel.ShapeCreation)
	body = append(body, r.call("Create(ctx.Request.Context(), &input)"), r.respond("StatusCreated"))
	return r.handler("Create", body...)
}

func (r *renderer) getAll() *codemodel.Func {
	return r.handler("GetAll", r.call("GetAll(ctx.Request.Context())"), r.respond("StatusOK"))
}

func (r *renderer) filter() *codemodel.Func {
	return r.handler("Filter",
		r.call(fmt.Sprintf("Filter(ctx.Request.Context(), %s.BindPagination(ctx))", r.crud)),
		r.respond("StatusOK"))
}

func (r *renderer) getByID() *codemodel.Func {
	body := r.parseID()
	body = append(body, r.call("GetByID(ctx.Request.Context(), id)"), r.respond("StatusOK"))
	return r.handler("GetByID", body...)
}

func (r *renderer) update() *codemodel.Func {
	body := r.parseID()
	body = append(body, r.bind(typemodel.ShapeModification)...)
	body = append(body, r.call("Update(ctx.Request.Context(), id, &input)"), r.respond("StatusOK"))
	return r.handler("Update", body...)
}

func (r *renderer) remove() *codemodel.Func {
	body := r.parseID()
	body = append(body, r.call("Delete(ctx.Request.Context(), id)"), r.respond("StatusOK"))
	return r.handler("Delete", body...)
}

func (r *renderer) template(p viewgen.Page) string {
	return viewgen.TemplateName(r.resource, p)
}

func (r *renderer) indexPage() *codemodel.Func {
	return r.handler("IndexPage",
		fmt.Sprintf("page, err := c.service.Filter(ctx.Request.Context(), %s.BindPagination(ctx))", r.crud),
		fmt.Sprintf("if err != nil {\n%s.AbortWithError(ctx, err)\nreturn\n}", r.crud),
		fmt.Sprintf("ctx.HTML(%s.StatusOK, %q, %s.H{\"Page\": page})", r.http, r.template(viewgen.PageIndex), r.gin),
	)
}

func (r *renderer) createPage() *codemodel.Func {
	return r.handler("CreatePage",
		fmt.Sprintf("ctx.HTML(%s.StatusOK, %q, %s.H{})", r.http, r.template(viewgen.PageCreate), r.gin),
	)
}

func (r *renderer) createSubmit() *codemodel.Func {
	shape := r.m.Shape(typemodel.ShapeCreation).Type
	return r.handler("CreateSubmit",
		"var input "+r.imports.Spell(shape.Ref()),
		fmt.Sprintf("if err := ctx.ShouldBind(&input); err != nil {\nctx.HTML(%s.StatusBadRequest, %q, %s.H{\"Error\": err.Error()})\nreturn\n}",
			r.http, r.template(viewgen.PageCreate), r.gin),
		"if _, err := c.service.Create(ctx.Request.Context(), &input); err != nil {\n"+
			fmt.Sprintf("ctx.HTML(%s.StatusOf(err), %q, %s.H{\"Error\": err.Error()})\nreturn\n}", r.crud, r.template(viewgen.PageCreate), r.gin),
		fmt.Sprintf("ctx.Redirect(%s.StatusSeeOther, %q)", r.http, r.opts.PagesPrefix+"/"+r.resource),
	)
}

func (r *renderer) detailsPage() *codemodel.Func {
	body := r.parseID()
	body = append(body,
		r.call("GetByID(ctx.Request.Context(), id)"),
		fmt.Sprintf("ctx.HTML(%s.StatusOK, %q, %s.H{\"Item\": result})", r.http, r.template(viewgen.PageDetails), r.gin),
	)
	return r.handler("DetailsPage", body...)
}
