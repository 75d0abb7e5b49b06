package typeload

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"github.com/donutnomad/crudgen/internal/typemodel"
	"golang.org/x/tools/go/packages"
)

// GeneratedMarker 本工具生成文件头中的标识
const GeneratedMarker = "crudgen"

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedModule

// Result 加载结果
type Result struct {
	Module   *Module
	Universe *typemodel.Snapshot
	Packages map[string]*Package // key: 导入路径
	Errors   []error             // 包级错误，不中断加载
}

// Package 已加载的包
type Package struct {
	Path string
	Name string
	Dir  string
}

// PackageByDir 按目录查找包
func (r *Result) PackageByDir(dir string) (*Package, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, false
	}
	for _, p := range r.Packages {
		if p.Dir == abs {
			return p, true
		}
	}
	return nil, false
}

// Load 加载模块内全部包并构建只读快照
// 加载只在入口执行一次，核心逻辑只消费快照
func Load(ctx context.Context, mod *Module) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     mod.Root,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("加载模块 %s 失败: %w", mod.Path, err)
	}

	b := &builder{
		module: mod,
		seen:   make(map[string]bool),
	}
	result := &Result{
		Module:   mod,
		Packages: make(map[string]*Package),
	}
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			result.Errors = append(result.Errors, e)
		}
		if pkg.Types == nil {
			continue
		}
		info := &Package{Path: pkg.PkgPath, Name: pkg.Name}
		if len(pkg.GoFiles) > 0 {
			info.Dir = filepath.Dir(pkg.GoFiles[0])
		}
		result.Packages[pkg.PkgPath] = info
		b.addPackage(pkg, info.Dir)
	}

	result.Universe = typemodel.NewSnapshot(b.types...)
	return result, nil
}

type builder struct {
	module *Module
	types  []*typemodel.TypeInfo
	seen   map[string]bool
}

func (b *builder) addPackage(pkg *packages.Package, dir string) {
	generated := generatedFiles(pkg)
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		info := b.add(named, false)
		if info == nil {
			continue
		}
		info.Dir = dir
		info.Generated = generated[pkg.Fset.Position(obj.Pos()).Filename]
		if !info.IsStruct {
			info.Enum = enumValues(scope, named)
		}
	}
}

// add 注册具名类型；外部类型只在被嵌入时注册，用于展开字段
func (b *builder) add(named *types.Named, external bool) *typemodel.TypeInfo {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}
	key := obj.Pkg().Path() + "." + obj.Name()
	if b.seen[key] {
		return nil
	}
	b.seen[key] = true

	info := &typemodel.TypeInfo{
		Name:     obj.Name(),
		PkgPath:  obj.Pkg().Path(),
		PkgName:  obj.Pkg().Name(),
		External: external,
	}
	b.types = append(b.types, info)

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		underlying := refOf(named.Underlying())
		info.Underlying = &underlying
		return info
	}

	info.IsStruct = true
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		info.Fields = append(info.Fields, typemodel.Field{
			Name:     f.Name(),
			Type:     refOf(f.Type()),
			Tag:      st.Tag(i),
			Embedded: f.Embedded(),
			Exported: f.Exported(),
		})
		if f.Embedded() {
			if inner, ok := derefNamed(f.Type()); ok && b.isExternal(inner) {
				b.add(inner, true)
			}
		}
	}
	return info
}

func (b *builder) isExternal(named *types.Named) bool {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return false
	}
	path := pkg.Path()
	return path != b.module.Path && !strings.HasPrefix(path, b.module.Path+"/")
}

func derefNamed(t types.Type) (*types.Named, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	n, ok := types.Unalias(t).(*types.Named)
	return n, ok
}

// refOf 将 go/types 类型转换为 TypeRef
func refOf(t types.Type) typemodel.TypeRef {
	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		return typemodel.Basic(tt.Name())
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return typemodel.Basic(obj.Name())
		}
		return typemodel.Named(obj.Pkg().Path(), obj.Name())
	case *types.Pointer:
		return typemodel.PointerTo(refOf(tt.Elem()))
	case *types.Slice:
		return typemodel.SliceOf(refOf(tt.Elem()))
	case *types.Array:
		return typemodel.ArrayOf(tt.Len(), refOf(tt.Elem()))
	case *types.Map:
		return typemodel.MapOf(refOf(tt.Key()), refOf(tt.Elem()))
	default:
		return typemodel.Other(types.TypeString(t, func(p *types.Package) string { return p.Name() }))
	}
}

// enumValues 收集类型为 named 的包级常量，按声明位置排序
func enumValues(scope *types.Scope, named *types.Named) []typemodel.EnumValue {
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return int(a.Pos() - b.Pos()) })

	values := make([]typemodel.EnumValue, 0, len(consts))
	for _, c := range consts {
		value := c.Val().ExactString()
		if c.Val().Kind() == constant.String {
			value = constant.StringVal(c.Val())
		}
		values = append(values, typemodel.EnumValue{Name: c.Name(), Value: value})
	}
	return values
}

// generatedFiles 返回由本工具生成的文件
func generatedFiles(pkg *packages.Package) map[string]bool {
	out := make(map[string]bool)
	for _, f := range pkg.Syntax {
		if !ast.IsGenerated(f) {
			continue
		}
		for _, cg := range f.Comments {
			if cg.Pos() > f.Package {
				break
			}
			if strings.Contains(cg.Text(), GeneratedMarker) {
				out[pkg.Fset.Position(f.Pos()).Filename] = true
				break
			}
		}
	}
	return out
}
