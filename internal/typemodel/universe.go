package typemodel

import (
	"cmp"
	"slices"
)

// Field 结构体字段
type Field struct {
	Name     string
	Type     TypeRef
	Tag      string // 原始 struct tag，不含反引号
	Embedded bool
	Exported bool
}

// EnumValue 具名标量类型的常量
type EnumValue struct {
	Name  string
	Value string
}

// TypeInfo 已加载的具名类型
type TypeInfo struct {
	Name    string
	PkgPath string
	PkgName string
	Dir     string // 包目录，外部类型为空

	IsStruct   bool
	Fields     []Field  // IsStruct 时的字段，声明顺序
	Underlying *TypeRef // 非结构体具名类型的底层类型
	Enum       []EnumValue

	External  bool // 来自当前模块之外，仅用于展开嵌入字段
	Generated bool // 声明于本工具生成的文件
}

// Ref 返回指向该类型的引用
func (t *TypeInfo) Ref() TypeRef {
	return Named(t.PkgPath, t.Name)
}

// QualifiedName 返回 pkgPath.Name
func (t *TypeInfo) QualifiedName() string {
	return t.Ref().Token()
}

// HasField 按名称精确查找直接字段
func (t *TypeInfo) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Universe 只读的类型集合快照
// 每次运行构建一次并显式传入，解析函数不访问全局状态
type Universe interface {
	// Lookup 按包路径和名称查找
	Lookup(pkgPath, name string) (*TypeInfo, bool)
	// ByName 按名称精确查找（区分大小写），结果按包路径排序
	ByName(name string) []*TypeInfo
	// All 返回全部类型，按 QualifiedName 排序
	All() []*TypeInfo
}

// Snapshot Universe 的默认实现
type Snapshot struct {
	types  map[string]*TypeInfo
	byName map[string][]*TypeInfo
	sorted []*TypeInfo
}

// NewSnapshot 由类型列表构建快照，重复的 QualifiedName 以先出现者为准
func NewSnapshot(types ...*TypeInfo) *Snapshot {
	s := &Snapshot{
		types:  make(map[string]*TypeInfo, len(types)),
		byName: make(map[string][]*TypeInfo),
	}
	for _, t := range types {
		if t == nil {
			continue
		}
		key := t.QualifiedName()
		if _, ok := s.types[key]; ok {
			continue
		}
		s.types[key] = t
		s.byName[t.Name] = append(s.byName[t.Name], t)
		s.sorted = append(s.sorted, t)
	}
	for _, list := range s.byName {
		slices.SortFunc(list, func(a, b *TypeInfo) int { return cmp.Compare(a.PkgPath, b.PkgPath) })
	}
	slices.SortFunc(s.sorted, func(a, b *TypeInfo) int {
		return cmp.Compare(a.QualifiedName(), b.QualifiedName())
	})
	return s
}

func (s *Snapshot) Lookup(pkgPath, name string) (*TypeInfo, bool) {
	t, ok := s.types[Named(pkgPath, name).Token()]
	return t, ok
}

func (s *Snapshot) ByName(name string) []*TypeInfo {
	return slices.Clone(s.byName[name])
}

func (s *Snapshot) All() []*TypeInfo {
	return slices.Clone(s.sorted)
}

// LookupRef 查找引用指向的具名类型（去掉指针）
func LookupRef(u Universe, ref TypeRef) (*TypeInfo, bool) {
	d := ref.Deref()
	if d.Kind != RefNamed {
		return nil, false
	}
	return u.Lookup(d.PkgPath, d.Name)
}

// Flatten 返回导出字段，匿名嵌入的结构体在原位置展开
// 与 Go 字段提升一致，浅层字段遮蔽深层同名字段
func Flatten(u Universe, info *TypeInfo) []Field {
	return flatten(u, info, map[string]bool{})
}

func flatten(u Universe, info *TypeInfo, visiting map[string]bool) []Field {
	key := info.QualifiedName()
	if visiting[key] {
		return nil
	}
	visiting[key] = true
	defer delete(visiting, key)

	direct := make(map[string]bool)
	for _, f := range info.Fields {
		if _, ok := embeddedStruct(u, f); !ok {
			direct[f.Name] = true
		}
	}

	seen := make(map[string]bool)
	var out []Field
	add := func(f Field) {
		if !f.Exported || seen[f.Name] {
			return
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	for _, f := range info.Fields {
		inner, ok := embeddedStruct(u, f)
		if !ok {
			add(f)
			continue
		}
		for _, g := range flatten(u, inner, visiting) {
			if !direct[g.Name] {
				add(g)
			}
		}
	}
	return out
}

func embeddedStruct(u Universe, f Field) (*TypeInfo, bool) {
	if !f.Embedded {
		return nil, false
	}
	inner, ok := LookupRef(u, f.Type)
	if !ok || !inner.IsStruct {
		return nil, false
	}
	return inner, true
}
