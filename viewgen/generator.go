package viewgen

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-openapi/inflect"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
	"github.com/donutnomad/crudgen/internal/utils"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("views").
		Delims("[[", "]]").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Options 输出位置
type Options struct {
	Dir         string // 视图根目录，页面输出到 Dir/{resource}/
	Resource    string
	PagesPrefix string
}

// Widget 输入控件
type Widget string

const (
	WidgetNumber   Widget = "number"
	WidgetDateTime Widget = "datetime-local"
	WidgetCheckbox Widget = "checkbox"
	WidgetText     Widget = "text"
	WidgetSelect   Widget = "select"
	WidgetCSV      Widget = "csv"
)

// Option 下拉选项
type Option struct {
	Value string
	Label string
}

// Input 创建页的一个输入项
type Input struct {
	Field    string
	Name     string // 表单字段名，与 form 标签一致
	Label    string
	Widget   Widget
	Step     string
	Required bool
	Options  []Option
}

// Column 列表页与详情页的一列
type Column struct {
	Field   string
	Label   string
	Display string // html/template 表达式，相对于当前元素
}

type templates struct {
	Index   string
	Create  string
	Details string
}

// View 页面数据
type View struct {
	Entity    string
	Title     string
	PagesPath string
	Key       string // 链接使用的主键字段，ViewModel 不含主键时为空
	Columns   []Column
	Inputs    []Input
	Templates templates
}

// Build 由投影规则构造页面数据
// 列表与详情展示 ViewModel 中除主键外的全部字段，创建页展示创建输入的全部字段
func Build(m *projection.Model, opts Options) *View {
	v := &View{
		Entity:    m.Entity.Name,
		Title:     inflect.Humanize(opts.Resource),
		PagesPath: opts.PagesPrefix + "/" + opts.Resource,
		Templates: templates{
			Index:   TemplateName(opts.Resource, PageIndex),
			Create:  TemplateName(opts.Resource, PageCreate),
			Details: TemplateName(opts.Resource, PageDetails),
		},
	}

	for _, r := range projection.Fields(m.Rules(typemodel.ShapeViewModel)) {
		if !m.HasField(typemodel.ShapeViewModel, r) {
			continue
		}
		if r.Member.IsPrimaryKey {
			v.Key = r.Field
			continue
		}
		v.Columns = append(v.Columns, Column{Field: r.Field, Label: label(r.Field), Display: display(r)})
	}

	for _, r := range projection.Fields(m.Rules(typemodel.ShapeCreation)) {
		if !m.HasField(typemodel.ShapeCreation, r) {
			continue
		}
		in := input(r)
		in.Name = formName(m, r)
		v.Inputs = append(v.Inputs, in)
	}
	return v
}

func label(field string) string {
	return inflect.Humanize(utils.ToSnakeCase(field))
}

func display(r projection.Rule) string {
	field := "." + r.Field
	switch {
	case r.Mode == projection.ForeignKeyList:
		return fmt.Sprintf("{{ range $i, $v := %s }}{{ if $i }}, {{ end }}{{ $v }}{{ end }}", field)
	case r.IsObject() && r.Member.Kind == typemodel.KindCollectionNavigation:
		return fmt.Sprintf("{{ len %s }}", field)
	case r.IsObject():
		if r.Relationship != nil && r.Relationship.TargetKey != nil {
			return fmt.Sprintf("{{ with %s }}{{ .%s }}{{ end }}", field, r.Relationship.TargetKey.Name)
		}
		return fmt.Sprintf("{{ %s }}", field)
	case r.Member.Scalar.Category == typemodel.CategoryTime && !r.Member.Scalar.Nullable && !r.Member.Type.IsPointer():
		return fmt.Sprintf("{{ %s.Format \"2006-01-02 15:04\" }}", field)
	default:
		return fmt.Sprintf("{{ %s }}", field)
	}
}

// WidgetOf 按字段类型选择输入控件
func WidgetOf(r projection.Rule) (Widget, string) {
	switch {
	case r.Mode == projection.ForeignKeyList:
		return WidgetCSV, ""
	case r.Mode == projection.ForeignKey:
		return WidgetNumber, "1"
	}
	info := r.Member.Scalar
	if _, ok := r.Type.Sequence(); ok {
		return WidgetCSV, ""
	}
	if info.Enum && len(r.Member.Enum) > 0 {
		return WidgetSelect, ""
	}
	switch info.Category {
	case typemodel.CategoryInteger, typemodel.CategoryUnsigned:
		return WidgetNumber, "1"
	case typemodel.CategoryFloat, typemodel.CategoryDecimal:
		return WidgetNumber, "any"
	case typemodel.CategoryTime:
		return WidgetDateTime, ""
	case typemodel.CategoryBool:
		return WidgetCheckbox, ""
	default:
		return WidgetText, ""
	}
}

// formName 与 gin 的表单绑定一致: 取创建输入字段的 form 标签，没有时为 Go 字段名
func formName(m *projection.Model, r projection.Rule) string {
	if f, ok := projection.FieldOf(m.Universe, m.Shape(typemodel.ShapeCreation).Type, r.Field); ok {
		name, _, _ := strings.Cut(reflect.StructTag(f.Tag).Get("form"), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return r.Field
}

func input(r projection.Rule) Input {
	widget, step := WidgetOf(r)
	in := Input{
		Field:  r.Field,
		Label:  label(r.Field),
		Widget: widget,
		Step:   step,
	}
	if r.Mode == projection.ForeignKey && !r.Relationship.TargetKey.Scalar.Category.IsNumeric() {
		in.Widget, in.Step = WidgetText, ""
	}
	switch in.Widget {
	case WidgetNumber, WidgetDateTime:
		in.Required = !r.Type.IsPointer() && !r.Member.Scalar.Nullable
	case WidgetSelect:
		for _, e := range r.Member.Enum {
			in.Options = append(in.Options, Option{Value: e.Value, Label: e.Name})
		}
	}
	return in
}

// Emit 生成三个页面
func Emit(m *projection.Model, opts Options) ([]codemodel.Asset, error) {
	view := Build(m, opts)
	assets := make([]codemodel.Asset, 0, len(Pages))
	for _, p := range Pages {
		var buf bytes.Buffer
		if err := pageTemplates.ExecuteTemplate(&buf, p.FileName()+".tmpl", view); err != nil {
			return nil, fmt.Errorf("渲染页面 %s 失败: %w", p, err)
		}
		if _, err := htmltemplate.New("").Parse(buf.String()); err != nil {
			return nil, fmt.Errorf("页面 %s 不是合法的模板: %w", TemplateName(opts.Resource, p), err)
		}
		assets = append(assets, codemodel.Asset{
			Path:    filepath.Join(opts.Dir, opts.Resource, p.FileName()),
			Content: buf.Bytes(),
		})
	}
	return assets, nil
}
