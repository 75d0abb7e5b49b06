package crudgen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/crudgen/internal/typemodel"
)

// CrudParams @Crud 注解参数
// 输出目录相对于输出根目录，根目录默认为实体所在包的上一级目录
type CrudParams struct {
	Context    string   `param:"name=context,description=持久化上下文类型名，存在多个候选时必填"`
	Dtos       []string `param:"name=dtos,description=缺失时生成的形状 [ViewModel\\, CreationDto\\, ModificationDto]"`
	Ids        []string `param:"name=ids,description=生成的形状中以 {M}Id / {M}Ids 暴露的导航成员"`
	Views      bool     `param:"name=views,default=false,description=生成页面模板与页面处理器"`
	Route      string   `param:"name=route,description=资源路由，默认为复数蛇形实体名"`
	Prefix     string   `param:"name=prefix,default=/pages,description=页面路由前缀"`
	Dto        string   `param:"name=dto,default=dto,description=DTO 输出目录"`
	Service    string   `param:"name=service,default=service,description=服务输出目录"`
	Controller string   `param:"name=controller,default=controller,description=控制器输出目录"`
	Pages      string   `param:"name=pages,default=views,description=页面模板输出目录"`
}

// Shapes 解析 dtos 参数，接受 ViewModel / CreationDto / ModificationDto 及其小写简称
func (p *CrudParams) Shapes() ([]typemodel.ShapeKind, error) {
	var kinds []typemodel.ShapeKind
	seen := make(map[typemodel.ShapeKind]bool)
	for _, name := range p.Dtos {
		kind, ok := parseShape(name)
		if !ok {
			return nil, fmt.Errorf("dtos: 未知的形状 %q", name)
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func parseShape(name string) (typemodel.ShapeKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, kind := range typemodel.ShapeKinds {
		if name == kind.String() || name == strings.ToLower(kind.Suffix()) {
			return kind, true
		}
	}
	return 0, false
}
