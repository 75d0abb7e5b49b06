package projection

import (
	"fmt"
	"strings"

	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
)

// Target 生成形状所在的包
type Target struct {
	PkgPath string
	PkgName string
}

// Synthesize 为缺失的伴随类型构造待生成的类型
// ids 中列出的导航成员以 {M}Id / {M}Ids 暴露，实体已有标量 {M}ID 时沿用该字段，其余按投影规则处理
// 返回的 TypeInfo 字段与规则一致，可作为伴随类型参与后续解析
func Synthesize(u typemodel.Universe, d *typemodel.EntityDescriptor, kind typemodel.ShapeKind, target Target, ids []string) (*typemodel.TypeInfo, []Rule, error) {
	overlay := &typemodel.TypeInfo{
		Name:      kind.TypeName(d.Name),
		PkgPath:   target.PkgPath,
		PkgName:   target.PkgName,
		IsStruct:  true,
		Generated: true,
	}

	for _, name := range ids {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, ok := d.Member(name)
		if !ok || !m.Kind.IsNavigation() {
			return nil, nil, typemodel.NewMetadataError(d.Name, name,
				fmt.Sprintf("ids references %q, which is not a navigation member", name))
		}
		field := typemodel.SingleForeignKeyName(d, m.Name)
		if m.Kind == typemodel.KindCollectionNavigation {
			field = typemodel.ForeignKeyListName(m.Name)
		}
		overlay.Fields = append(overlay.Fields, typemodel.Field{Name: field, Exported: true})
	}

	rules, err := Project(u, d, overlay, kind)
	if err != nil {
		return nil, nil, err
	}

	overlay.Fields = overlay.Fields[:0]
	for _, r := range Fields(rules) {
		name := WireName(r.Field)
		overlay.Fields = append(overlay.Fields, typemodel.Field{
			Name:     r.Field,
			Type:     r.Type,
			Tag:      fmt.Sprintf(`json:"%s" form:"%s"`, name, name),
			Exported: true,
		})
	}
	return overlay, rules, nil
}

// WireName 生成字段的 json/form 名称
func WireName(field string) string {
	return utils.ToLowerCamel(field)
}

// FieldType 返回伴随类型上指定字段的类型
func FieldType(u typemodel.Universe, companion *typemodel.TypeInfo, name string) (typemodel.TypeRef, bool) {
	f, ok := FieldOf(u, companion, name)
	return f.Type, ok
}

// FieldOf 按名称查找伴随类型的字段，包含嵌入结构体提升的字段
func FieldOf(u typemodel.Universe, companion *typemodel.TypeInfo, name string) (typemodel.Field, bool) {
	for _, f := range typemodel.Flatten(u, companion) {
		if f.Name == name {
			return f, true
		}
	}
	return typemodel.Field{}, false
}
