package plugin

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseParamsFromStruct 从结构体的 param tag 解析参数定义
// tag 支持 name, required, default, description；值中的逗号用 \ 转义
//
//	type CrudParams struct {
//	    Views bool     `param:"name=views,default=false,description=生成页面"`
//	    Ids   []string `param:"name=ids,description=以外键暴露的导航成员"`
//	}
func ParseParamsFromStruct(v any) []ParamDef {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var params []ParamDef
	for i := range typ.NumField() {
		tag := typ.Field(i).Tag.Get("param")
		if tag == "" {
			continue
		}
		if def := parseParamTag(tag); def.Name != "" {
			params = append(params, def)
		}
	}
	return params
}

func parseParamTag(tag string) ParamDef {
	var param ParamDef
	for key, value := range splitTag(tag) {
		switch key {
		case "name":
			param.Name = value
		case "required":
			param.Required = value == "true"
		case "default":
			param.Default = value
		case "description":
			param.Description = value
		}
	}
	return param
}

// splitTag 分割 key1=value1,key2=value2
func splitTag(tag string) map[string]string {
	result := make(map[string]string)

	var key, value strings.Builder
	inKey := true
	escaped := false
	flush := func() {
		if key.Len() > 0 {
			result[key.String()] = value.String()
		}
		key.Reset()
		value.Reset()
		inKey = true
	}

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
			continue
		case ch == '=' && inKey:
			inKey = false
			continue
		case ch == ',':
			flush()
			continue
		}
		if inKey {
			key.WriteByte(ch)
		} else {
			value.WriteByte(ch)
		}
	}
	flush()
	return result
}

// ParseAnnotationParams 将注解参数写入 target（结构体指针）
// 注解未给出的参数使用 paramDefs 中的默认值；缺少必填参数时返回错误
func ParseAnnotationParams(annotation *Annotation, target any, paramDefs []ParamDef) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("参数目标必须是非 nil 指针, 得到 %T", target)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("参数目标必须指向结构体, 得到 %T", target)
	}

	defaults := make(map[string]ParamDef, len(paramDefs))
	for _, def := range paramDefs {
		defaults[def.Name] = def
	}

	typ := val.Type()
	for i := range typ.NumField() {
		fieldVal := val.Field(i)
		tag := typ.Field(i).Tag.Get("param")
		if tag == "" || !fieldVal.CanSet() {
			continue
		}
		name := parseParamTag(tag).Name
		if name == "" {
			continue
		}

		value, ok := annotation.Params[strings.ToLower(name)]
		if !ok {
			def := defaults[name]
			if def.Required {
				return fmt.Errorf("@%s 缺少必填参数 %s", annotation.Name, name)
			}
			value = def.Default
		}
		if err := setFieldValue(fieldVal, value); err != nil {
			return fmt.Errorf("参数 %s=%q: %w", name, value, err)
		}
	}
	return nil
}

// setFieldValue 支持 string、[]string、整数、bool、浮点
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("不支持的参数类型 %s", field.Type())
		}
		field.Set(reflect.ValueOf(SplitList(value)))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(orZero(value), 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(orZero(value), 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		if value == "" {
			field.SetBool(false)
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(orZero(value), 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	}
	return nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
