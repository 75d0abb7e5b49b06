package plugin

import "reflect"

// Generator 代码生成器接口
// 只处理带注解的结构体声明
type Generator interface {
	Name() string

	// Annotations 返回该生成器绑定的注解，一个注解只能绑定一个生成器
	Annotations() []string

	ParamDefs() []ParamDef

	// NewParams 返回参数结构体的新实例（指针），nil 表示不需要参数
	NewParams() any

	// Generate 执行生成，返回的定义与文件由 Run 统一写入
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// BaseGenerator 提供 Generator 除 Generate 外的实现，可嵌入
type BaseGenerator struct {
	name        string
	annotations []string
	paramDefs   []ParamDef
	paramsProto any
}

// NewBaseGenerator paramsProto 为参数结构体的零值，例如 CrudParams{}；参数定义从其 param tag 解析
func NewBaseGenerator(name string, annotations []string, paramsProto any) *BaseGenerator {
	g := &BaseGenerator{
		name:        name,
		annotations: annotations,
		paramsProto: paramsProto,
	}
	if paramsProto != nil {
		g.paramDefs = ParseParamsFromStruct(paramsProto)
	}
	return g
}

func (g *BaseGenerator) Name() string {
	return g.name
}

func (g *BaseGenerator) Annotations() []string {
	return g.annotations
}

func (g *BaseGenerator) ParamDefs() []ParamDef {
	return g.paramDefs
}

func (g *BaseGenerator) NewParams() any {
	if g.paramsProto == nil {
		return nil
	}
	typ := reflect.TypeOf(g.paramsProto)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}
