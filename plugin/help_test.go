package plugin

import (
	"strings"
	"testing"
)

type helpParams struct {
	Context string `param:"name=context,required=true,description=持久化上下文类型名"`
	Views   bool   `param:"name=views,default=false,description=生成页面"`
	Route   string `param:"name=route,default=items,description=资源路由"`
	Pages   string `param:"name=pages,default=/pages,description=页面前缀"`
}

type helpGenerator struct {
	*BaseGenerator
}

func (g *helpGenerator) Generate(*GenerateContext) (*GenerateResult, error) {
	return NewGenerateResult(), nil
}

func TestFormatHelpText(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&helpGenerator{NewBaseGenerator("crud", []string{"Crud"}, helpParams{})})

	helpText := FormatHelpText(registry)

	expectedContents := []string{
		"@Crud - crud",
		"output - 输出根目录",
		"context (必填) - 持久化上下文类型名",
		"views [默认: false] - 生成页面",
		"示例:",
		"@Crud(output=../$PACKAGE_api)",
		"@Crud(views=false)",
		"@Crud(route=items)",
	}
	for _, expected := range expectedContents {
		if !strings.Contains(helpText, expected) {
			t.Errorf("Help text should contain '%s', got:\n%s", expected, helpText)
		}
	}
	if strings.Contains(helpText, "@Crud(pages=/pages)") {
		t.Errorf("最多展示两个参数示例, got:\n%s", helpText)
	}
}

func TestFormatHelpText_MultipleGenerators(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&helpGenerator{NewBaseGenerator("generator2", []string{"Ann2"}, nil)})
	registry.MustRegister(&helpGenerator{NewBaseGenerator("generator1", []string{"Ann1"}, nil)})

	helpText := FormatHelpText(registry)

	first, second := strings.Index(helpText, "@Ann1"), strings.Index(helpText, "@Ann2")
	if first < 0 || second < 0 {
		t.Fatalf("Help text should contain both annotations, got:\n%s", helpText)
	}
	if first > second {
		t.Error("生成器应按名称排序")
	}
}

func TestFormatHelpText_EmptyRegistry(t *testing.T) {
	helpText := FormatHelpText(NewRegistry())
	if !strings.Contains(helpText, "(暂无已注册的生成器)") {
		t.Errorf("unexpected help text: %s", helpText)
	}
}

func TestFormatParamDef(t *testing.T) {
	tests := []struct {
		name     string
		param    ParamDef
		expected string
	}{
		{
			name:     "required param",
			param:    ParamDef{Name: "context", Required: true, Description: "上下文"},
			expected: "context (必填) - 上下文",
		},
		{
			name:     "optional param with default",
			param:    ParamDef{Name: "views", Default: "false", Description: "生成页面"},
			expected: "views [默认: false] - 生成页面",
		},
		{
			name:     "bare",
			param:    ParamDef{Name: "ids"},
			expected: "ids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatParamDef(tt.param); got != tt.expected {
				t.Errorf("FormatParamDef() = %q, want %q", got, tt.expected)
			}
		})
	}
}
