package servicegen

import (
	"errors"
	"path/filepath"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/utils"
)

// Options 输出位置
type Options struct {
	Dir     string
	Package projection.Target
}

// Result 服务契约与实现两个输出单元
type Result struct {
	Contract       *codemodel.Unit
	Implementation *codemodel.Unit
	Plans          []Plan
}

// Units 按输出顺序返回
func (r *Result) Units() []*codemodel.Unit {
	return []*codemodel.Unit{r.Contract, r.Implementation}
}

// Emit 生成服务契约与 gorm 实现
func Emit(m *projection.Model, opts Options) (*Result, error) {
	if m.Context == nil {
		return nil, errors.New("缺少持久化上下文")
	}
	base := utils.ToSnakeCase(m.Entity.Name)

	contract := codemodel.NewUnit(filepath.Join(opts.Dir, base+"_service_gen.go"), opts.Package.PkgName, opts.Package.PkgPath, m.Namer)
	cr := newRenderer(m, contract.Imports)
	contract.Add(cr.contract())

	impl := codemodel.NewUnit(filepath.Join(opts.Dir, base+"_service_impl_gen.go"), opts.Package.PkgName, opts.Package.PkgPath, m.Namer)
	ir := newRenderer(m, impl.Imports)
	impl.Add(ir.implementation()...)

	plans := BuildPlans(m)
	for _, p := range plans {
		impl.Add(ir.method(p))
	}
	if viewMapped(m) {
		impl.Add(ir.mapper())
	}

	return &Result{Contract: contract, Implementation: impl, Plans: plans}, nil
}
