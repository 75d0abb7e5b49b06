package plugin

import (
	"regexp"
	"strings"
)

// annotationRegex 匹配 @Name 或 @Name(params)
var annotationRegex = regexp.MustCompile(`@(\w+)(?:\(([^)]*)\))?`)

// paramRegex 匹配 key=`value`、key="value"、key=value
// 列表值使用方括号: ids=[Products, Tags]
var paramRegex = regexp.MustCompile("(\\w+)\\s*=\\s*(?:`([^`]*)`|\"([^\"]*)\"|\\[([^\\]]*)\\]|([^,\\s]+))")

// ParseAnnotations 从注释文本中解析所有注解
func ParseAnnotations(comment string) []*Annotation {
	var annotations []*Annotation
	for line := range strings.SplitSeq(comment, "\n") {
		line = strings.TrimPrefix(strings.TrimSpace(line), "//")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")

		for _, match := range annotationRegex.FindAllStringSubmatch(line, -1) {
			ann := &Annotation{
				Name:   match[1],
				Params: make(map[string]string),
				Raw:    match[0],
			}
			if match[2] != "" {
				ann.Params = parseParams(match[2])
			}
			annotations = append(annotations, ann)
		}
	}
	return annotations
}

func parseParams(content string) map[string]string {
	params := make(map[string]string)
	for _, match := range paramRegex.FindAllStringSubmatch(content, -1) {
		key := strings.ToLower(match[1])
		for _, v := range match[2:] {
			if v != "" {
				params[key] = v
				break
			}
		}
		if _, ok := params[key]; !ok {
			params[key] = ""
		}
	}
	return params
}

// FilterByNames 过滤指定名称的注解，names 为空时原样返回
func FilterByNames(annotations []*Annotation, names ...string) []*Annotation {
	if len(names) == 0 {
		return annotations
	}
	var result []*Annotation
	for _, ann := range annotations {
		for _, n := range names {
			if ann.Name == n {
				result = append(result, ann)
				break
			}
		}
	}
	return result
}

// GetAnnotation 获取指定名称的注解
func GetAnnotation(annotations []*Annotation, name string) *Annotation {
	for _, ann := range annotations {
		if ann.Name == name {
			return ann
		}
	}
	return nil
}

// GetParam 获取注解参数，key 不区分大小写
func (a *Annotation) GetParam(key string) string {
	return a.Params[strings.ToLower(key)]
}

// GetParamOr 参数不存在时返回默认值
func (a *Annotation) GetParamOr(key, defaultValue string) string {
	if v, ok := a.Params[strings.ToLower(key)]; ok {
		return v
	}
	return defaultValue
}

func (a *Annotation) HasParam(key string) bool {
	_, ok := a.Params[strings.ToLower(key)]
	return ok
}

// SplitList 拆分列表参数，去掉空白和空项
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
