package projection

import (
	"fmt"

	"github.com/donutnomad/crudgen/internal/typemodel"
)

// Model 一个实体解析完成后的全部元数据，供各生成器共享，只读
type Model struct {
	Universe   typemodel.Universe
	Entity     *typemodel.EntityDescriptor
	Companions typemodel.CompanionTypeSet
	Context    *typemodel.ContextInfo
	// Namer 包路径到包名
	Namer func(pkgPath string) string

	rules map[typemodel.ShapeKind][]Rule
}

// NewModel 为三个形状计算投影规则
// 形状回退到实体时按无伴随类型投影，导航成员均不暴露
func NewModel(u typemodel.Universe, d *typemodel.EntityDescriptor, companions typemodel.CompanionTypeSet, ctx *typemodel.ContextInfo) (*Model, error) {
	m := &Model{
		Universe:   u,
		Entity:     d,
		Companions: companions,
		Context:    ctx,
		Namer:      PackageNamer(u),
		rules:      make(map[typemodel.ShapeKind][]Rule, len(typemodel.ShapeKinds)),
	}
	for _, kind := range typemodel.ShapeKinds {
		rules, err := Project(u, d, companions.Get(kind), kind)
		if err != nil {
			return nil, fmt.Errorf("投影 %s 失败: %w", kind.TypeName(d.Name), err)
		}
		m.rules[kind] = rules
	}
	return m, nil
}

// Shape 返回形状实际使用的类型
func (m *Model) Shape(kind typemodel.ShapeKind) typemodel.Shape {
	return m.Companions.Shape(kind)
}

// Rules 返回形状的全部投影规则（含 Omit）
func (m *Model) Rules(kind typemodel.ShapeKind) []Rule {
	return m.rules[kind]
}

// Key 实体主键
func (m *Model) Key() typemodel.Member {
	return *m.Entity.PrimaryKey
}

// HasField 形状类型上是否存在同名同类型的字段
// 形状为实体时恒为 true
func (m *Model) HasField(kind typemodel.ShapeKind, r Rule) bool {
	shape := m.Shape(kind)
	if shape.IsEntity {
		return true
	}
	ref, ok := FieldType(m.Universe, shape.Type, r.Field)
	return ok && ref.Token() == r.Type.Token()
}

// Preloads 读取时需要预加载的导航成员: ViewModel 保留对象或以 id 暴露的成员
func (m *Model) Preloads() []string {
	var out []string
	for _, r := range m.Rules(typemodel.ShapeViewModel) {
		if !r.Member.Kind.IsNavigation() || r.Mode == Omit {
			continue
		}
		if r.Mode == ForeignKey && !r.Emitted() {
			continue
		}
		if !m.HasField(typemodel.ShapeViewModel, r) {
			continue
		}
		out = append(out, r.Member.Name)
	}
	return out
}
