package gormparse

import (
	"reflect"
	"strings"

	"github.com/donutnomad/crudgen/internal/utils"
)

// Tag 解析后的 gorm 标签，key 统一为大写
type Tag map[string]string

// ParseTag 解析 struct tag 中的 gorm 部分
// 例如: gorm:"column:name;primaryKey" -> {COLUMN: name, PRIMARYKEY: ""}
func ParseTag(structTag string) Tag {
	result := make(Tag)
	gormTag, ok := reflect.StructTag(structTag).Lookup("gorm")
	if !ok {
		return result
	}

	for part := range strings.SplitSeq(gormTag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, found := strings.Cut(part, ":"); found {
			result[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
		} else {
			result[strings.ToUpper(part)] = ""
		}
	}

	return result
}

// Has 是否包含指定 key（不区分大小写）
func (t Tag) Has(key string) bool {
	_, ok := t[strings.ToUpper(key)]
	return ok
}

// Get 获取指定 key 的值（不区分大小写）
func (t Tag) Get(key string) string {
	return t[strings.ToUpper(key)]
}

// IsPrimaryKey 是否标记为主键: primaryKey 或 primary_key
func IsPrimaryKey(structTag string) bool {
	tag := ParseTag(structTag)
	return tag.Has("primaryKey") || tag.Has("primary_key")
}

// IsIgnored 是否为 gorm:"-"
func IsIgnored(structTag string) bool {
	return ParseTag(structTag).Has("-")
}

// ColumnName 提取列名(从gorm标签或使用默认规则)
func ColumnName(fieldName, structTag string) string {
	if col := ParseTag(structTag).Get("column"); col != "" {
		return col
	}
	return utils.ToSnakeCase(fieldName)
}
