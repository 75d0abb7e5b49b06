package crudgen

import (
	"errors"

	"github.com/davecgh/go-spew/spew"

	"github.com/donutnomad/crudgen/controllergen"
	"github.com/donutnomad/crudgen/dtogen"
	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/servicegen"
	"github.com/donutnomad/crudgen/viewgen"
)

// Request 一个实体的生成请求
type Request struct {
	Entity *typemodel.TypeInfo
	Params *CrudParams
	Layout Layout
}

// Output 一个实体的全部输出
type Output struct {
	Model  *projection.Model
	Units  []*codemodel.Unit
	Assets []codemodel.Asset
}

// Build 解析实体并在内存中构建全部输出单元
// 任一步骤失败时返回错误且不返回任何输出
func Build(u typemodel.Universe, req Request, log *logger.Logger) (*Output, error) {
	if req.Entity == nil {
		return nil, errors.New("实体类型为空")
	}
	if log == nil {
		log = logger.Nop()
	}
	params := req.Params
	if params == nil {
		params = &CrudParams{}
	}

	desc, err := typemodel.Describe(u, req.Entity)
	if err != nil {
		return nil, err
	}
	ctxInfo, err := typemodel.DiscoverContext(u, params.Context)
	if err != nil {
		return nil, err
	}
	shapes, err := params.Shapes()
	if err != nil {
		return nil, err
	}

	companions := typemodel.ResolveCompanions(u, req.Entity)
	synthesized := 0
	for _, kind := range shapes {
		if existing := companions.Get(kind); existing != nil {
			log.Debugf("%s 已声明于 %s，不再生成", existing.Name, existing.PkgPath)
			continue
		}
		overlay, _, err := projection.Synthesize(u, desc, kind, req.Layout.Dto.Target, params.Ids)
		if err != nil {
			return nil, err
		}
		companions = companions.With(kind, overlay)
		synthesized++
	}
	if synthesized == 0 && len(params.Ids) > 0 {
		log.Warnf("ids 只作用于生成的形状，%s 没有需要生成的形状", desc.Name)
	}

	model, err := projection.NewModel(u, desc, companions, ctxInfo)
	if err != nil {
		return nil, err
	}
	if log.Enabled() {
		for _, kind := range typemodel.ShapeKinds {
			log.Debugf("%s 投影规则:\n%s", model.Shape(kind).Name(), spew.Sdump(projection.Fields(model.Rules(kind))))
		}
	}

	out := &Output{Model: model}
	if unit := dtogen.Emit(model, dtogen.Options{Dir: req.Layout.Dto.Dir, Package: req.Layout.Dto.Target}); unit != nil {
		out.Units = append(out.Units, unit)
	}

	svc, err := servicegen.Emit(model, servicegen.Options{Dir: req.Layout.Service.Dir, Package: req.Layout.Service.Target})
	if err != nil {
		return nil, err
	}
	out.Units = append(out.Units, svc.Units()...)
	for _, p := range svc.Plans {
		if len(p.Skipped) > 0 {
			log.Warnf("%s.%s 跳过类型不一致的字段: %v", servicegen.ServiceName(desc.Name), p.Operation, p.Skipped)
		}
	}

	prefix := params.Prefix
	if prefix == "" {
		prefix = controllergen.DefaultPagesPrefix
	}
	out.Units = append(out.Units, controllergen.Emit(model, controllergen.Options{
		Dir:         req.Layout.Controller.Dir,
		Package:     req.Layout.Controller.Target,
		Service:     req.Layout.Service.Target,
		Route:       params.Route,
		Views:       params.Views,
		PagesPrefix: prefix,
	}))

	if params.Views {
		assets, err := viewgen.Emit(model, viewgen.Options{
			Dir:         req.Layout.Pages,
			Resource:    controllergen.Resource(desc.Name, params.Route),
			PagesPrefix: prefix,
		})
		if err != nil {
			return nil, err
		}
		out.Assets = assets
	}
	return out, nil
}
