package codemodel

import (
	"slices"
	"strconv"

	"github.com/donutnomad/crudgen/internal/typemodel"
)

// Import 单条导入
type Import struct {
	Path  string
	Name  string // 源码中使用的名字
	Alias bool   // Name 与路径末段不一致时需要显式别名
}

// ImportSet 输出单元的导入集合，负责包名冲突时分配别名
type ImportSet struct {
	self    string
	resolve func(pkgPath string) string
	byPath  map[string]Import
	names   map[string]string
}

// NewImportSet self 为输出单元所在包路径，resolve 返回包路径对应的包名
func NewImportSet(self string, resolve func(pkgPath string) string) *ImportSet {
	if resolve == nil {
		resolve = typemodel.LastSegment
	}
	return &ImportSet{
		self:    self,
		resolve: resolve,
		byPath:  make(map[string]Import),
		names:   make(map[string]string),
	}
}

// Qualify 返回引用 pkgPath 时使用的前缀，本包返回空字符串
func (s *ImportSet) Qualify(pkgPath string) string {
	if pkgPath == "" || pkgPath == s.self {
		return ""
	}
	if imp, ok := s.byPath[pkgPath]; ok {
		return imp.Name
	}

	base := s.resolve(pkgPath)
	name := base
	for i := 2; ; i++ {
		if _, taken := s.names[name]; !taken {
			break
		}
		name = base + strconv.Itoa(i)
	}
	imp := Import{Path: pkgPath, Name: name, Alias: name != typemodel.LastSegment(pkgPath)}
	s.byPath[pkgPath] = imp
	s.names[name] = pkgPath
	return name
}

// Reserve 预留标识符，避免包名与局部名字冲突
func (s *ImportSet) Reserve(names ...string) {
	for _, n := range names {
		if _, ok := s.names[n]; !ok {
			s.names[n] = ""
		}
	}
}

// Spell 返回类型在本单元中的拼写，并登记所需导入
func (s *ImportSet) Spell(ref typemodel.TypeRef) string {
	return ref.Spell(s.Qualify)
}

// Type 返回 pkgPath 中 name 的限定拼写
func (s *ImportSet) Type(pkgPath, name string) string {
	if q := s.Qualify(pkgPath); q != "" {
		return q + "." + name
	}
	return name
}

// List 按路径排序返回全部导入
func (s *ImportSet) List() []Import {
	out := make([]Import, 0, len(s.byPath))
	for _, imp := range s.byPath {
		out = append(out, imp)
	}
	slices.SortFunc(out, func(a, b Import) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})
	return out
}

// Has 是否已导入
func (s *ImportSet) Has(pkgPath string) bool {
	_, ok := s.byPath[pkgPath]
	return ok
}
