package typemodel

import (
	"strconv"
	"strings"
)

// RefKind 类型引用的结构种类
type RefKind int

const (
	RefBasic   RefKind = iota + 1 // 内置类型 int/string/...
	RefNamed                      // 具名类型 pkg.Name
	RefPointer                    // *T
	RefSlice                      // []T
	RefArray                      // [N]T
	RefMap                        // map[K]V
	RefOther                      // 接口、函数、通道等
)

// TypeRef 与加载方式无关的类型描述
// Token 作为类型标识，用于查表和比较，不依赖运行时类型比较
type TypeRef struct {
	Kind    RefKind
	PkgPath string   // RefNamed: 包路径
	Name    string   // RefBasic/RefNamed: 名称; RefOther: 原始拼写
	Elem    *TypeRef // Pointer/Slice/Array 的元素，Map 的值
	Key     *TypeRef // Map 的键
	Len     int64    // Array 长度
}

func Basic(name string) TypeRef {
	return TypeRef{Kind: RefBasic, Name: name}
}

func Named(pkgPath, name string) TypeRef {
	return TypeRef{Kind: RefNamed, PkgPath: pkgPath, Name: name}
}

func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefPointer, Elem: &elem}
}

func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefSlice, Elem: &elem}
}

func ArrayOf(n int64, elem TypeRef) TypeRef {
	return TypeRef{Kind: RefArray, Len: n, Elem: &elem}
}

func MapOf(key, value TypeRef) TypeRef {
	return TypeRef{Kind: RefMap, Key: &key, Elem: &value}
}

func Other(spelling string) TypeRef {
	return TypeRef{Kind: RefOther, Name: spelling}
}

// Token 返回类型标识，例如 int、*time.Time、[]example.com/app/models.Product
func (r TypeRef) Token() string {
	return r.Spell(func(pkgPath string) string { return pkgPath })
}

// String 同 Token
func (r TypeRef) String() string {
	return r.Token()
}

// Spell 返回 Go 源码拼写，qualifier 决定包前缀，返回空字符串表示不加前缀
func (r TypeRef) Spell(qualifier func(pkgPath string) string) string {
	switch r.Kind {
	case RefBasic, RefOther:
		return r.Name
	case RefNamed:
		if r.PkgPath == "" {
			return r.Name
		}
		if q := qualifier(r.PkgPath); q != "" {
			return q + "." + r.Name
		}
		return r.Name
	case RefPointer:
		return "*" + r.Elem.Spell(qualifier)
	case RefSlice:
		return "[]" + r.Elem.Spell(qualifier)
	case RefArray:
		return "[" + strconv.FormatInt(r.Len, 10) + "]" + r.Elem.Spell(qualifier)
	case RefMap:
		return "map[" + r.Key.Spell(qualifier) + "]" + r.Elem.Spell(qualifier)
	default:
		return ""
	}
}

// IsZero 是否为空引用
func (r TypeRef) IsZero() bool {
	return r.Kind == 0
}

// IsPointer 是否为指针
func (r TypeRef) IsPointer() bool {
	return r.Kind == RefPointer
}

// Deref 去掉所有指针层
func (r TypeRef) Deref() TypeRef {
	for r.Kind == RefPointer && r.Elem != nil {
		r = *r.Elem
	}
	return r
}

// Sequence 若为切片或数组（可带指针），返回元素类型
func (r TypeRef) Sequence() (TypeRef, bool) {
	d := r.Deref()
	if (d.Kind == RefSlice || d.Kind == RefArray) && d.Elem != nil {
		return *d.Elem, true
	}
	return TypeRef{}, false
}

// Packages 收集类型中引用的所有包路径
func (r TypeRef) Packages() []string {
	var out []string
	var walk func(t *TypeRef)
	walk = func(t *TypeRef) {
		if t == nil {
			return
		}
		if t.Kind == RefNamed && t.PkgPath != "" {
			out = append(out, t.PkgPath)
		}
		walk(t.Key)
		walk(t.Elem)
	}
	walk(&r)
	return out
}

// LastSegment 返回包路径最后一段，作为默认包名
func LastSegment(pkgPath string) string {
	if i := strings.LastIndex(pkgPath, "/"); i >= 0 {
		return pkgPath[i+1:]
	}
	return pkgPath
}
