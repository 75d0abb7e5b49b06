package crudgen

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/internal/typeload"
	"github.com/donutnomad/crudgen/plugin"
)

const (
	// Name 插件名，用于 go:crudgen 指令中的 plugin:crud
	Name = "crud"
	// AnnotationName 注解名
	AnnotationName = "Crud"
)

// Generator @Crud 生成器
// 同一模块的目标共享一次类型加载；每个实体的输出全部构建成功后才加入结果
type Generator struct {
	*plugin.BaseGenerator
}

func NewGenerator() *Generator {
	return &Generator{
		BaseGenerator: plugin.NewBaseGenerator(Name, []string{AnnotationName}, CrudParams{}),
	}
}

func (g *Generator) Generate(gctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	ctx := gctx.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := gctx.Log()
	result := plugin.NewGenerateResult()

	modules := make(map[string]*typeload.Module)
	groups := make(map[string][]*plugin.AnnotatedTarget)
	for _, at := range gctx.Targets {
		mod, err := typeload.FindModule(at.Target.Dir())
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", at.Target.Position, err))
			result.Skipped++
			continue
		}
		modules[mod.Root] = mod
		groups[mod.Root] = append(groups[mod.Root], at)
	}

	roots := make([]string, 0, len(modules))
	for root := range modules {
		roots = append(roots, root)
	}
	slices.Sort(roots)

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		g.generateModule(ctx, gctx, modules[root], groups[root], result, log.With("module", modules[root].Path))
	}
	return result, nil
}

func (g *Generator) generateModule(ctx context.Context, gctx *plugin.GenerateContext, mod *typeload.Module, targets []*plugin.AnnotatedTarget, result *plugin.GenerateResult, log *logger.Logger) {
	cfg, err := LoadConfig(mod.Root)
	if err != nil {
		result.AddError(err)
		result.Skipped += len(targets)
		return
	}
	cfg.registerIrregulars()

	loaded, err := typeload.Load(ctx, mod)
	if err != nil {
		result.AddError(err)
		result.Skipped += len(targets)
		return
	}
	for _, e := range loaded.Errors {
		log.Warnf("%v", e)
	}
	lookup := func(dir string) (string, bool) {
		if p, ok := loaded.PackageByDir(dir); ok {
			return p.Name, true
		}
		return "", false
	}

	for _, at := range targets {
		elog := log.With("entity", at.Target.Name)
		out, err := g.entity(gctx, mod, loaded, cfg, at, lookup, elog)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %s: %w", at.Target.Position, at.Target.Name, err))
			result.Skipped++
			continue
		}
		for _, unit := range out.Units {
			result.AddDefinition(unit.Path, codemodel.Render(unit))
		}
		for _, asset := range out.Assets {
			result.AddAsset(asset.Path, asset.Content)
		}
		elog.Infof("生成 %d 个源文件, %d 个页面", len(out.Units), len(out.Assets))
	}
}

func (g *Generator) entity(gctx *plugin.GenerateContext, mod *typeload.Module, loaded *typeload.Result, cfg *Config,
	at *plugin.AnnotatedTarget, lookup PackageLookup, log *logger.Logger) (*Output, error) {
	ann := at.Annotation(g.Annotations()...)
	if ann == nil {
		ann = &plugin.Annotation{Name: AnnotationName, Params: map[string]string{}}
	}
	params, err := g.params(at, ann)
	if err != nil {
		return nil, err
	}
	cfg.Apply(params, ann)

	pkg, ok := loaded.PackageByDir(at.Target.Dir())
	if !ok {
		return nil, fmt.Errorf("包 %s 未加载", at.Target.Dir())
	}
	info, ok := loaded.Universe.Lookup(pkg.Path, at.Target.Name)
	if !ok {
		return nil, fmt.Errorf("类型 %s.%s 未找到", pkg.Path, at.Target.Name)
	}

	root := plugin.OutputDir(at.Target, ann, gctx.PackageConfig(at.Target), Name, gctx.DefaultOutput)
	layout, err := ResolveLayout(mod, at.Target.Dir(), root, params, lookup)
	if err != nil {
		return nil, err
	}
	log.Debugf("输出: dto=%s service=%s controller=%s", layout.Dto.PkgPath, layout.Service.PkgPath, layout.Controller.PkgPath)

	return Build(loaded.Universe, Request{Entity: info, Params: params, Layout: layout}, log)
}

// params 返回已解析的参数副本；Run 之外直接调用时按默认值解析
func (g *Generator) params(at *plugin.AnnotatedTarget, ann *plugin.Annotation) (*CrudParams, error) {
	if p, ok := at.ParsedParams.(*CrudParams); ok {
		cp := *p
		return &cp, nil
	}
	if at.ParsedParams != nil {
		return nil, errors.New("参数类型不匹配")
	}
	p := new(CrudParams)
	if err := plugin.ParseAnnotationParams(ann, p, g.ParamDefs()); err != nil {
		return nil, err
	}
	return p, nil
}
