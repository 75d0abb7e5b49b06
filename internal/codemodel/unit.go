package codemodel

import (
	"fmt"
	"strings"

	"github.com/donutnomad/gg"
)

// Header 生成文件头
const Header = "Code generated by crudgen. DO NOT EDIT."

// Unit 一个输出源文件
type Unit struct {
	Path    string // 输出文件路径
	Package string
	PkgPath string
	Imports *ImportSet
	Decls   []Decl
}

// NewUnit 创建输出单元
func NewUnit(path, pkgName, pkgPath string, resolve func(string) string) *Unit {
	return &Unit{
		Path:    path,
		Package: pkgName,
		PkgPath: pkgPath,
		Imports: NewImportSet(pkgPath, resolve),
	}
}

// Add 追加声明
func (u *Unit) Add(decls ...Decl) {
	u.Decls = append(u.Decls, decls...)
}

// Lookup 按名字查找声明
func (u *Unit) Lookup(name string) (Decl, bool) {
	for _, d := range u.Decls {
		if d.DeclName() == name {
			return d, true
		}
	}
	return nil, false
}

// Decl 顶层声明
type Decl interface {
	DeclName() string
	render(g *gg.Generator)
}

// Tag 结构体标签中的一项
type Tag struct {
	Key   string
	Value string
}

// StructField 结构体字段
type StructField struct {
	Name string
	Type string
	Tags []Tag
}

// TagString 返回反引号内的标签文本
func (f StructField) TagString() string {
	parts := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		parts = append(parts, fmt.Sprintf("%s:%q", t.Key, t.Value))
	}
	return strings.Join(parts, " ")
}

// Tag 返回指定 key 的标签值
func (f StructField) Tag(key string) (string, bool) {
	for _, t := range f.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Struct 结构体声明
type Struct struct {
	Doc    string
	Name   string
	Fields []StructField
}

func (s *Struct) DeclName() string { return s.Name }

// Field 按名字查找字段
func (s *Struct) Field(name string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// FieldNames 按顺序返回字段名
func (s *Struct) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (s *Struct) render(g *gg.Generator) {
	comment(g, s.Doc)
	st := g.Body().NewStruct(s.Name)
	for _, f := range s.Fields {
		typ := f.Type
		if len(f.Tags) > 0 {
			typ = fmt.Sprintf("%s `%s`", f.Type, f.TagString())
		}
		st.AddField(f.Name, typ)
	}
}

// Param 参数或返回值
type Param struct {
	Name string
	Type string
}

// Func 函数或方法
type Func struct {
	Doc     string
	Name    string
	Recv    *Param
	Params  []Param
	Results []Param
	Body    []string
}

func (f *Func) DeclName() string {
	if f.Recv != nil {
		return strings.TrimPrefix(f.Recv.Type, "*") + "." + f.Name
	}
	return f.Name
}

func (f *Func) render(g *gg.Generator) {
	comment(g, f.Doc)
	fn := g.Body().NewFunction(f.Name)
	if f.Recv != nil {
		fn.WithReceiver(f.Recv.Name, f.Recv.Type)
	}
	for _, p := range f.Params {
		fn.AddParameter(p.Name, p.Type)
	}
	for _, r := range f.Results {
		fn.AddResult(r.Name, r.Type)
	}
	body := make([]any, 0, len(f.Body))
	for _, stmt := range f.Body {
		body = append(body, gg.S("%s", stmt))
	}
	fn.AddBody(body...)
}

// Method 接口方法
type Method struct {
	Doc     string
	Name    string
	Params  []Param
	Results []Param
}

// Signature 返回方法签名文本
func (m Method) Signature() string {
	return m.Name + "(" + joinParams(m.Params) + ")" + results(m.Results)
}

// Interface 接口声明
type Interface struct {
	Doc     string
	Name    string
	Methods []Method
}

func (i *Interface) DeclName() string { return i.Name }

// Method 按名字查找方法
func (i *Interface) Method(name string) (Method, bool) {
	for _, m := range i.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

func (i *Interface) render(g *gg.Generator) {
	comment(g, i.Doc)
	var b strings.Builder
	fmt.Fprintf(&b, "type %s interface {\n", i.Name)
	for _, m := range i.Methods {
		if m.Doc != "" {
			fmt.Fprintf(&b, "\t// %s\n", m.Doc)
		}
		fmt.Fprintf(&b, "\t%s\n", m.Signature())
	}
	b.WriteString("}")
	g.Body().AddString(b.String())
}

// Raw 原样输出的声明
type Raw struct {
	Name string
	Text string
}

func (r *Raw) DeclName() string { return r.Name }

func (r *Raw) render(g *gg.Generator) {
	g.Body().AddString(r.Text)
}

// Render 将输出单元转换为 gg 定义
func Render(u *Unit) *gg.Generator {
	g := gg.New()
	g.SetHeader(Header)
	g.SetPackage(u.Package)
	for _, imp := range u.Imports.List() {
		if imp.Alias {
			g.PAlias(imp.Path, imp.Name)
		} else {
			g.P(imp.Path)
		}
	}
	for i, d := range u.Decls {
		if i > 0 {
			g.Body().AddLine()
		}
		d.render(g)
	}
	return g
}

func comment(g *gg.Generator, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		g.Body().Append(gg.LineComment("%s", line))
	}
}

func joinParams(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strings.TrimSpace(p.Name + " " + p.Type)
	}
	return strings.Join(parts, ", ")
}

func results(params []Param) string {
	switch {
	case len(params) == 0:
		return ""
	case len(params) == 1 && params[0].Name == "":
		return " " + params[0].Type
	default:
		return " (" + joinParams(params) + ")"
	}
}

// RuntimePath 生成代码依赖的运行时包
const RuntimePath = "github.com/donutnomad/crudgen/crud"

// Asset 非 Go 源码的输出文件
type Asset struct {
	Path    string
	Content []byte
}
