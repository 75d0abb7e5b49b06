package crudgen

import (
	"fmt"
	"path/filepath"

	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typeload"
)

// Package 一个输出包
type Package struct {
	Dir string
	projection.Target
}

// Layout 一个实体各层的输出位置
type Layout struct {
	Dto        Package
	Service    Package
	Controller Package
	Pages      string // 页面模板根目录，不是 Go 包
}

// PackageLookup 按目录查找已存在的包名
type PackageLookup func(dir string) (name string, ok bool)

// ResolveLayout 计算输出目录及其导入路径
// root 为空时使用实体所在目录的上一级
func ResolveLayout(mod *typeload.Module, entityDir, root string, params *CrudParams, lookup PackageLookup) (Layout, error) {
	if root == "" {
		root = filepath.Dir(entityDir)
	}

	var layout Layout
	var err error
	if layout.Dto, err = resolvePackage(mod, root, params.Dto, lookup); err != nil {
		return Layout{}, err
	}
	if layout.Service, err = resolvePackage(mod, root, params.Service, lookup); err != nil {
		return Layout{}, err
	}
	if layout.Controller, err = resolvePackage(mod, root, params.Controller, lookup); err != nil {
		return Layout{}, err
	}
	layout.Pages = join(root, params.Pages)
	return layout, nil
}

func resolvePackage(mod *typeload.Module, root, rel string, lookup PackageLookup) (Package, error) {
	dir := join(root, rel)
	pkgPath, err := mod.ImportPath(dir)
	if err != nil {
		return Package{}, fmt.Errorf("输出目录: %w", err)
	}
	name, ok := "", false
	if lookup != nil {
		name, ok = lookup(dir)
	}
	if !ok {
		name = projection.GuessPackageName(pkgPath)
	}
	return Package{Dir: dir, Target: projection.Target{PkgPath: pkgPath, PkgName: name}}, nil
}

func join(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, rel)
}
