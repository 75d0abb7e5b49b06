package typemodel

import "fmt"

const (
	foreignKeySuffix     = "Id"
	foreignKeyListSuffix = "Ids"
)

// ForeignKeyName 单导航成员的外键字段名: {M}Id
func ForeignKeyName(member string) string {
	return member + foreignKeySuffix
}

// IndependentForeignKey 实体上承担单导航外键的标量成员: {M}Id 或 {M}ID，与主键接受 Id/ID 一致
func (d *EntityDescriptor) IndependentForeignKey(member string) (*Member, bool) {
	for _, suffix := range []string{foreignKeySuffix, "ID"} {
		if fk, ok := d.Member(member + suffix); ok && fk.Kind == KindScalar {
			return fk, true
		}
	}
	return nil, false
}

// SingleForeignKeyName 单导航的外键字段名，实体上已有独立标量时沿用其名称
func SingleForeignKeyName(d *EntityDescriptor, member string) string {
	if fk, ok := d.IndependentForeignKey(member); ok {
		return fk.Name
	}
	return ForeignKeyName(member)
}

// ForeignKeyListName 集合导航成员的外键列表字段名: {M}Ids
func ForeignKeyListName(member string) string {
	return member + foreignKeyListSuffix
}

// Relationship 导航成员的分类结果
type Relationship struct {
	Member    Member
	Target    *TypeInfo // 引用的实体类型
	TargetKey *Member   // 引用实体的主键，未暴露且无法解析时为 nil

	Exposed   bool   // 伴随类型声明了 {M}Id / {M}Ids
	FieldName string // {M}Id 或 {M}Ids；实体已有标量 {M}ID 时为 {M}ID
	// Synthesized 伴随类型声明了 {M}Id，而实体上没有独立的标量 {M}Id / {M}ID
	Synthesized bool
}

// IsCollection 是否为集合导航
func (r Relationship) IsCollection() bool {
	return r.Member.Kind == KindCollectionNavigation
}

// Classify 对每个导航成员判断伴随类型是否以 id / id 列表暴露
// companion 为 nil 或为实体本身时，所有导航成员都不暴露
func Classify(u Universe, d *EntityDescriptor, companion *TypeInfo) ([]Relationship, error) {
	declared := make(map[string]bool)
	if companion != nil && companion != d.Info {
		for _, f := range Flatten(u, companion) {
			declared[f.Name] = true
		}
	}

	var out []Relationship
	for _, m := range d.Navigations() {
		rel := Relationship{Member: m}
		if m.Kind == KindCollectionNavigation {
			rel.FieldName = ForeignKeyListName(m.Name)
		} else {
			rel.FieldName = SingleForeignKeyName(d, m.Name)
		}
		rel.Exposed = declared[rel.FieldName]

		if target, ok := LookupRef(u, m.Target); ok && target.IsStruct {
			rel.Target = target
			if td, err := Describe(u, target); err == nil {
				rel.TargetKey = td.PrimaryKey
			} else if rel.Exposed {
				return nil, fmt.Errorf("exposing %s.%s: %w", d.Name, rel.FieldName, err)
			}
		}
		if rel.Exposed && rel.TargetKey == nil {
			return nil, NewMetadataError(d.Name, m.Name,
				fmt.Sprintf("%s is exposed but referenced type %s is not a known entity", rel.FieldName, m.Target.Token()))
		}

		if rel.Exposed && m.Kind == KindSingleNavigation {
			_, ok := d.IndependentForeignKey(m.Name)
			rel.Synthesized = !ok
		}
		out = append(out, rel)
	}
	return out, nil
}

// RelationshipOf 按成员名查找分类结果
func RelationshipOf(rels []Relationship, member string) (Relationship, bool) {
	for _, r := range rels {
		if r.Member.Name == member {
			return r, true
		}
	}
	return Relationship{}, false
}
