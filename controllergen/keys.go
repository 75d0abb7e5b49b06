package controllergen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/typemodel"
)

// basicOf 标量类别对应的内置类型
func basicOf(info typemodel.ScalarInfo) string {
	switch info.Category {
	case typemodel.CategoryInteger:
		if info.Bits == 0 {
			return "int"
		}
		return fmt.Sprintf("int%d", info.Bits)
	case typemodel.CategoryUnsigned:
		if info.Bits == 0 {
			return "uint"
		}
		return fmt.Sprintf("uint%d", info.Bits)
	case typemodel.CategoryChar:
		if info.Bits == 8 {
			return "uint8"
		}
		return "int32"
	case typemodel.CategoryFloat:
		if info.Bits == 32 {
			return "float32"
		}
		return "float64"
	case typemodel.CategoryBool:
		return "bool"
	default:
		return "string"
	}
}

// castFunc 返回 cast 中解析该内置类型的函数，例如 ToInt64E
func castFunc(basic string) string {
	return "To" + strings.ToUpper(basic[:1]) + basic[1:] + "E"
}

// KeyParser 按主键声明类型生成路径参数解析语句，raw 为参数名
func KeyParser(key typemodel.Member, imports *codemodel.ImportSet) []string {
	keyType := imports.Spell(key.Type)
	convert := func(expr, basic string) []string {
		if keyType == basic {
			return []string{"return " + expr}
		}
		return []string{
			"v, err := " + expr,
			fmt.Sprintf("return %s(v), err", keyType),
		}
	}

	switch key.Scalar.Category {
	case typemodel.CategoryUUID:
		return convert(imports.Qualify("github.com/google/uuid")+".Parse(raw)", "uuid.UUID")
	case typemodel.CategoryDecimal:
		return convert(imports.Qualify("github.com/shopspring/decimal")+".NewFromString(raw)", "decimal.Decimal")
	case typemodel.CategoryTime:
		t := imports.Qualify("time")
		return convert(fmt.Sprintf("%s.Parse(%s.RFC3339, raw)", t, t), "time.Time")
	case typemodel.CategoryString:
		if keyType == "string" {
			return []string{"return raw, nil"}
		}
		return []string{fmt.Sprintf("return %s(raw), nil", keyType)}
	case typemodel.CategoryInteger, typemodel.CategoryUnsigned, typemodel.CategoryChar:
		// cast 会把 010、0x10 当作八进制、十六进制
		basic := basicOf(key.Scalar)
		guard := []string{
			fmt.Sprintf("digits, err := %s.DecimalKey(raw)", imports.Qualify(codemodel.RuntimePath)),
			"if err != nil {\nreturn 0, err\n}",
		}
		return append(guard, convert(fmt.Sprintf("%s.%s(digits)", imports.Qualify("github.com/spf13/cast"), castFunc(basic)), basic)...)
	default:
		basic := basicOf(key.Scalar)
		return convert(fmt.Sprintf("%s.%s(raw)", imports.Qualify("github.com/spf13/cast"), castFunc(basic)), basic)
	}
}
