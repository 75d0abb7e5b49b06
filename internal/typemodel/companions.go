package typemodel

// ShapeKind 伴随类型种类
type ShapeKind int

const (
	ShapeViewModel ShapeKind = iota + 1
	ShapeCreation
	ShapeModification
)

// ShapeKinds 全部伴随类型种类，固定顺序
var ShapeKinds = []ShapeKind{ShapeViewModel, ShapeCreation, ShapeModification}

// Suffix 命名约定后缀
func (k ShapeKind) Suffix() string {
	switch k {
	case ShapeViewModel:
		return "ViewModel"
	case ShapeCreation:
		return "CreationDto"
	case ShapeModification:
		return "ModificationDto"
	default:
		return ""
	}
}

// TypeName 返回约定名称，如 CategoryViewModel
func (k ShapeKind) TypeName(entity string) string {
	return entity + k.Suffix()
}

// IsDto 是否为输入 DTO（主键被省略）
func (k ShapeKind) IsDto() bool {
	return k == ShapeCreation || k == ShapeModification
}

func (k ShapeKind) String() string {
	switch k {
	case ShapeViewModel:
		return "viewmodel"
	case ShapeCreation:
		return "creation"
	case ShapeModification:
		return "modification"
	default:
		return "unknown"
	}
}

// ParseShapeKind 解析注解参数中的种类名
func ParseShapeKind(s string) (ShapeKind, bool) {
	for _, k := range ShapeKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// CompanionTypeSet 伴随类型集合，缺失的槽位回退到实体本身
type CompanionTypeSet struct {
	Entity          *TypeInfo
	ViewModel       *TypeInfo
	CreationDto     *TypeInfo
	ModificationDto *TypeInfo
}

// Get 返回已解析的伴随类型，未解析返回 nil
func (s CompanionTypeSet) Get(kind ShapeKind) *TypeInfo {
	switch kind {
	case ShapeViewModel:
		return s.ViewModel
	case ShapeCreation:
		return s.CreationDto
	case ShapeModification:
		return s.ModificationDto
	default:
		return nil
	}
}

// With 返回替换指定槽位后的副本
func (s CompanionTypeSet) With(kind ShapeKind, info *TypeInfo) CompanionTypeSet {
	switch kind {
	case ShapeViewModel:
		s.ViewModel = info
	case ShapeCreation:
		s.CreationDto = info
	case ShapeModification:
		s.ModificationDto = info
	}
	return s
}

// Shape 某个槽位实际使用的类型
type Shape struct {
	Kind     ShapeKind
	Type     *TypeInfo
	IsEntity bool // 伴随类型缺失，使用实体本身
}

// Name 类型名
func (s Shape) Name() string {
	return s.Type.Name
}

// Shape 返回槽位使用的类型，缺失时为实体
func (s CompanionTypeSet) Shape(kind ShapeKind) Shape {
	if t := s.Get(kind); t != nil {
		return Shape{Kind: kind, Type: t}
	}
	return Shape{Kind: kind, Type: s.Entity, IsEntity: true}
}

// ResolveCompanions 按精确名称解析三个伴随类型，从不失败
// 同名类型优先取实体所在包，其次按包路径排序取第一个；生成文件中的类型不参与解析
func ResolveCompanions(u Universe, entity *TypeInfo) CompanionTypeSet {
	set := CompanionTypeSet{Entity: entity}
	for _, kind := range ShapeKinds {
		set = set.With(kind, lookupCompanion(u, kind.TypeName(entity.Name), entity.PkgPath))
	}
	return set
}

func lookupCompanion(u Universe, name, preferPkg string) *TypeInfo {
	var first *TypeInfo
	for _, t := range u.ByName(name) {
		if t.Generated || t.External || !t.IsStruct {
			continue
		}
		if t.PkgPath == preferPkg {
			return t
		}
		if first == nil {
			first = t
		}
	}
	return first
}
