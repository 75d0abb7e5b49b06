package typemodel

import "github.com/samber/lo"

// gormDBRef 持久化上下文必须持有的字段类型
var gormDBRef = PointerTo(Named("gorm.io/gorm", "DB"))

// ContextInfo 持久化上下文
type ContextInfo struct {
	Type    *TypeInfo
	DBField string // 持有 *gorm.DB 的字段名，嵌入时为 DB
}

// DiscoverContext 查找唯一的持久化上下文类型
// 候选为声明了 *gorm.DB 字段（含嵌入）的结构体
// name 非空时按类型名精确匹配候选；否则候选必须唯一
func DiscoverContext(u Universe, name string) (*ContextInfo, error) {
	var candidates []*ContextInfo
	for _, t := range u.All() {
		if !t.IsStruct || t.External || t.Generated {
			continue
		}
		if field, ok := dbField(t); ok {
			candidates = append(candidates, &ContextInfo{Type: t, DBField: field})
		}
	}
	names := lo.Map(candidates, func(c *ContextInfo, _ int) string {
		return c.Type.QualifiedName()
	})

	if name != "" {
		matched := lo.Filter(candidates, func(c *ContextInfo, _ int) bool {
			return c.Type.Name == name || c.Type.QualifiedName() == name
		})
		switch len(matched) {
		case 1:
			return matched[0], nil
		case 0:
			return nil, &ContextError{Name: name, Candidates: names, Cause: ErrNoContext}
		default:
			return nil, &ContextError{
				Name:       name,
				Candidates: lo.Map(matched, func(c *ContextInfo, _ int) string { return c.Type.QualifiedName() }),
				Cause:      ErrAmbiguousContext,
			}
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &ContextError{Cause: ErrNoContext}
	default:
		return nil, &ContextError{Candidates: names, Cause: ErrAmbiguousContext}
	}
}

func dbField(t *TypeInfo) (string, bool) {
	for _, f := range t.Fields {
		if f.Type.Token() != gormDBRef.Token() {
			continue
		}
		if f.Embedded || f.Exported {
			return f.Name, true
		}
	}
	return "", false
}
