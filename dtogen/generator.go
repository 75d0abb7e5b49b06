package dtogen

import (
	"fmt"
	"path/filepath"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
)

// TimeFormat 表单绑定时间字段使用的格式，与 datetime-local 输入一致
const TimeFormat = "2006-01-02T15:04"

// Options 输出位置
type Options struct {
	Dir     string
	Package projection.Target
}

var docs = map[typemodel.ShapeKind]string{
	typemodel.ShapeViewModel:    "%s %s 的返回视图",
	typemodel.ShapeCreation:     "%s 创建 %s 的输入",
	typemodel.ShapeModification: "%s 更新 %s 的输入",
}

// Emit 为待生成的伴随类型输出结构体，没有需要生成的类型时返回 nil
// 已由用户声明的伴随类型不会重复生成
func Emit(m *projection.Model, opts Options) *codemodel.Unit {
	path := filepath.Join(opts.Dir, utils.ToSnakeCase(m.Entity.Name)+"_dto_gen.go")
	unit := codemodel.NewUnit(path, opts.Package.PkgName, opts.Package.PkgPath, m.Namer)

	for _, kind := range typemodel.ShapeKinds {
		companion := m.Companions.Get(kind)
		if companion == nil || !companion.Generated {
			continue
		}
		unit.Add(Struct(m, kind, unit.Imports))
	}
	if len(unit.Decls) == 0 {
		return nil
	}
	return unit
}

// Struct 由投影规则构造结构体声明
func Struct(m *projection.Model, kind typemodel.ShapeKind, imports *codemodel.ImportSet) *codemodel.Struct {
	name := kind.TypeName(m.Entity.Name)
	st := &codemodel.Struct{
		Doc:  fmt.Sprintf(docs[kind], name, m.Entity.Name),
		Name: name,
	}
	for _, r := range projection.Fields(m.Rules(kind)) {
		st.Fields = append(st.Fields, codemodel.StructField{
			Name: r.Field,
			Type: imports.Spell(r.Type),
			Tags: Tags(r),
		})
	}
	return st
}

// Tags 字段标签: json/form 使用小驼峰，id 列表按逗号分隔绑定，时间字段指定表单格式
func Tags(r projection.Rule) []codemodel.Tag {
	name := projection.WireName(r.Field)
	tags := []codemodel.Tag{
		{Key: "json", Value: name},
		{Key: "form", Value: name},
	}
	switch {
	case r.Mode == projection.ForeignKeyList, isScalarList(r):
		tags = append(tags, codemodel.Tag{Key: "collection_format", Value: "csv"})
	case r.Member.Kind == typemodel.KindScalar && r.Member.Scalar.Category == typemodel.CategoryTime:
		tags = append(tags, codemodel.Tag{Key: "time_format", Value: TimeFormat})
	}
	return tags
}

func isScalarList(r projection.Rule) bool {
	if r.Member.Kind != typemodel.KindScalar {
		return false
	}
	elem, ok := r.Type.Sequence()
	return ok && elem.Token() != "byte" && elem.Token() != "uint8"
}
