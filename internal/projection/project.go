package projection

import (
	"fmt"

	"github.com/donutnomad/crudgen/internal/typemodel"
)

// Mode 成员在某个形状中的表示方式
type Mode int

const (
	Omit Mode = iota + 1
	ScalarCopy
	ForeignKey
	ForeignKeyList
)

func (m Mode) String() string {
	switch m {
	case Omit:
		return "Omit"
	case ScalarCopy:
		return "ScalarCopy"
	case ForeignKey:
		return "ForeignKey"
	case ForeignKeyList:
		return "ForeignKeyList"
	default:
		return "Unknown"
	}
}

// Rule 投影规则
type Rule struct {
	Member typemodel.Member
	Mode   Mode
	Field  string            // 输出字段名
	Type   typemodel.TypeRef // 输出字段类型

	// Relationship 导航成员的分类结果，标量成员为 nil
	Relationship *typemodel.Relationship
}

// IsObject 是否为保留完整对象的导航成员（仅 ViewModel）
func (r Rule) IsObject() bool {
	return r.Mode == ScalarCopy && r.Member.Kind.IsNavigation()
}

// Emitted 是否输出为字段
// 实体上已有独立标量 {M}Id 或 {M}ID 时，单导航的外键规则由该标量承担
func (r Rule) Emitted() bool {
	switch r.Mode {
	case Omit:
		return false
	case ForeignKey:
		return r.Relationship == nil || r.Relationship.Synthesized
	default:
		return true
	}
}

// Project 按声明顺序生成投影规则，结果确定
//  1. 主键: Dto 省略，ViewModel 保留
//  2. 标量: 直接复制
//  3. 单导航: 伴随类型声明 {M}Id 时为外键（主键类型），否则 ViewModel 保留对象，Dto 省略
//  4. 集合导航: 伴随类型声明 {M}Ids 时为外键列表，否则 ViewModel 保留对象列表，Dto 省略
func Project(u typemodel.Universe, d *typemodel.EntityDescriptor, companion *typemodel.TypeInfo, kind typemodel.ShapeKind) ([]Rule, error) {
	rels, err := typemodel.Classify(u, d, companion)
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(d.Members))
	for _, m := range d.Members {
		rule := Rule{Member: m, Field: m.Name, Type: m.Type}
		switch {
		case m.IsPrimaryKey:
			rule.Mode = ScalarCopy
			if kind.IsDto() {
				rule.Mode = Omit
			}
		case m.Kind == typemodel.KindScalar:
			rule.Mode = ScalarCopy
		default:
			rel, ok := typemodel.RelationshipOf(rels, m.Name)
			if !ok {
				return nil, fmt.Errorf("导航成员 %s.%s 未分类", d.Name, m.Name)
			}
			rule.Relationship = &rel
			switch {
			case rel.Exposed && m.Kind == typemodel.KindSingleNavigation:
				rule.Mode = ForeignKey
				rule.Field = rel.FieldName
				rule.Type = rel.TargetKey.Type
			case rel.Exposed:
				rule.Mode = ForeignKeyList
				rule.Field = rel.FieldName
				rule.Type = typemodel.SliceOf(rel.TargetKey.Type)
			case kind.IsDto():
				rule.Mode = Omit
			default:
				rule.Mode = ScalarCopy
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Fields 返回需要输出为字段的规则，保持顺序并按字段名去重
func Fields(rules []Rule) []Rule {
	seen := make(map[string]bool, len(rules))
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.Emitted() || seen[r.Field] {
			continue
		}
		seen[r.Field] = true
		out = append(out, r)
	}
	return out
}

// Exposed 返回外键与外键列表规则
func Exposed(rules []Rule) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Mode == ForeignKey || r.Mode == ForeignKeyList {
			out = append(out, r)
		}
	}
	return out
}
