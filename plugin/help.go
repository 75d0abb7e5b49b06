package plugin

import (
	"fmt"
	"strings"
)

// FormatHelpText 生成已注册生成器的注解帮助
func FormatHelpText(registry *Registry) string {
	generators := registry.Generators()
	if len(generators) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder
	for _, gen := range generators {
		annotations := gen.Annotations()
		if len(annotations) == 0 {
			continue
		}
		main := annotations[0]
		paramDefs := gen.ParamDefs()

		fmt.Fprintf(&sb, "  @%s - %s\n", main, gen.Name())
		sb.WriteString("    参数:\n")
		sb.WriteString("      output - 输出根目录（支持模板变量）\n")
		for _, param := range paramDefs {
			sb.WriteString("      " + FormatParamDef(param) + "\n")
		}

		sb.WriteString("    示例:\n")
		fmt.Fprintf(&sb, "      @%s\n", main)
		fmt.Fprintf(&sb, "      @%s(output=../$PACKAGE_api)\n", main)
		shown := 0
		for _, param := range paramDefs {
			if param.Default == "" || shown == 2 {
				continue
			}
			fmt.Fprintf(&sb, "      @%s(%s=%s)\n", main, param.Name, param.Default)
			shown++
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatParamDef 格式化单个参数定义，如 "views [默认: false] - 生成页面"
func FormatParamDef(param ParamDef) string {
	var sb strings.Builder
	sb.WriteString(param.Name)
	if param.Required {
		sb.WriteString(" (必填)")
	}
	if param.Default != "" {
		fmt.Fprintf(&sb, " [默认: %s]", param.Default)
	}
	if param.Description != "" {
		sb.WriteString(" - " + param.Description)
	}
	return sb.String()
}
