package typemodel

import (
	"reflect"
	"strings"

	"github.com/donutnomad/crudgen/internal/gormparse"
)

// MemberKind 成员分类，封闭的标签联合
type MemberKind int

const (
	KindScalar MemberKind = iota + 1
	KindSingleNavigation
	KindCollectionNavigation
)

func (k MemberKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindSingleNavigation:
		return "SingleNavigation"
	case KindCollectionNavigation:
		return "CollectionNavigation"
	default:
		return "Unknown"
	}
}

// IsNavigation 是否为导航成员
func (k MemberKind) IsNavigation() bool {
	return k == KindSingleNavigation || k == KindCollectionNavigation
}

// crudTagKey 显式标记主键: crud:"key"
const crudTagKey = "crud"

// Member 实体成员
type Member struct {
	Name         string
	Type         TypeRef // 声明类型
	Kind         MemberKind
	IsPrimaryKey bool
	Tag          string
	Column       string

	Scalar ScalarInfo  // KindScalar
	Enum   []EnumValue // 具名标量的常量
	Target TypeRef     // 导航成员引用的元素类型（已去指针）
}

// EntityDescriptor 实体描述，每次运行构建一次，不可变
type EntityDescriptor struct {
	Info       *TypeInfo
	Name       string
	PkgPath    string
	PkgName    string
	Members    []Member
	PrimaryKey *Member
}

// Member 按名称精确查找成员
func (d *EntityDescriptor) Member(name string) (*Member, bool) {
	for i := range d.Members {
		if d.Members[i].Name == name {
			return &d.Members[i], true
		}
	}
	return nil, false
}

// Scalars 返回标量成员
func (d *EntityDescriptor) Scalars() []Member {
	return d.filter(func(m Member) bool { return m.Kind == KindScalar })
}

// Navigations 返回导航成员
func (d *EntityDescriptor) Navigations() []Member {
	return d.filter(func(m Member) bool { return m.Kind.IsNavigation() })
}

func (d *EntityDescriptor) filter(fn func(Member) bool) []Member {
	var out []Member
	for _, m := range d.Members {
		if fn(m) {
			out = append(out, m)
		}
	}
	return out
}

// Describe 构建实体描述
// 主键: 显式标记 (crud:"key" 或 gorm primaryKey) 优先，其次名为 Id 或 ID 的成员
// 名称比较区分大小写，id 不会被识别
func Describe(u Universe, info *TypeInfo) (*EntityDescriptor, error) {
	if info == nil || !info.IsStruct {
		name := "<nil>"
		if info != nil {
			name = info.Name
		}
		return nil, NewMetadataError(name, "", "entity must be a struct type")
	}

	d := &EntityDescriptor{
		Info:    info,
		Name:    info.Name,
		PkgPath: info.PkgPath,
		PkgName: info.PkgName,
	}

	for _, f := range Flatten(u, info) {
		if isSkipped(f.Tag) {
			continue
		}
		d.Members = append(d.Members, describeMember(u, f))
	}

	key := findPrimaryKey(d.Members)
	if key < 0 {
		return nil, NewMetadataError(info.Name, "",
			`no primary key: tag a member with crud:"key" or gorm:"primaryKey", or name it exactly "Id"`)
	}
	d.Members[key].IsPrimaryKey = true
	d.PrimaryKey = &d.Members[key]
	if d.PrimaryKey.Kind != KindScalar {
		return nil, NewMetadataError(info.Name, d.PrimaryKey.Name, "primary key must be a scalar type")
	}

	return d, nil
}

func describeMember(u Universe, f Field) Member {
	m := Member{
		Name:   f.Name,
		Type:   f.Type,
		Tag:    f.Tag,
		Column: gormparse.ColumnName(f.Name, f.Tag),
	}
	m.Kind, m.Scalar, m.Target = classifyType(u, f.Type)
	if m.Kind == KindScalar {
		if named, ok := LookupRef(u, f.Type); ok {
			m.Enum = named.Enum
		}
	}
	return m
}

// classifyType 标量白名单优先；序列按元素递归分类
func classifyType(u Universe, ref TypeRef) (MemberKind, ScalarInfo, TypeRef) {
	if info, ok := scalarOf(u, ref); ok {
		return KindScalar, info, TypeRef{}
	}
	if elem, ok := ref.Sequence(); ok {
		kind, info, target := classifyType(u, elem)
		if kind == KindScalar {
			return KindScalar, info, TypeRef{}
		}
		return KindCollectionNavigation, ScalarInfo{}, target
	}
	return KindSingleNavigation, ScalarInfo{}, ref.Deref()
}

// scalarOf 查询标量表；底层为内置标量的具名类型视为枚举
func scalarOf(u Universe, ref TypeRef) (ScalarInfo, bool) {
	if info, ok := LookupScalar(ref); ok {
		return info, true
	}
	named, ok := LookupRef(u, ref)
	if !ok || named.IsStruct || named.Underlying == nil || named.Underlying.Kind != RefBasic {
		return ScalarInfo{}, false
	}
	info, ok := LookupScalar(*named.Underlying)
	if !ok {
		return ScalarInfo{}, false
	}
	info.Nullable = ref.IsPointer()
	info.Enum = true
	return info, true
}

func isSkipped(tag string) bool {
	if gormparse.IsIgnored(tag) {
		return true
	}
	return reflect.StructTag(tag).Get(crudTagKey) == "-"
}

func isTaggedKey(tag string) bool {
	if gormparse.IsPrimaryKey(tag) {
		return true
	}
	for opt := range strings.SplitSeq(reflect.StructTag(tag).Get(crudTagKey), ",") {
		if strings.TrimSpace(opt) == "key" {
			return true
		}
	}
	return false
}

func findPrimaryKey(members []Member) int {
	for i, m := range members {
		if isTaggedKey(m.Tag) {
			return i
		}
	}
	for i, m := range members {
		if m.Name == "Id" || m.Name == "ID" {
			return i
		}
	}
	return -1
}
