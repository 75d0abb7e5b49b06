package typemodel

import "reflect"

// RefOf 将 reflect.Type 转换为 TypeRef
func RefOf(t reflect.Type) TypeRef {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return Basic(t.Name())
		}
		return Named(t.PkgPath(), t.Name())
	}
	switch t.Kind() {
	case reflect.Pointer:
		return PointerTo(RefOf(t.Elem()))
	case reflect.Slice:
		return SliceOf(RefOf(t.Elem()))
	case reflect.Array:
		return ArrayOf(int64(t.Len()), RefOf(t.Elem()))
	case reflect.Map:
		return MapOf(RefOf(t.Key()), RefOf(t.Elem()))
	default:
		return Other(t.String())
	}
}

// FromReflect 由运行时类型构建 TypeInfo 列表，结构体字段引用的具名类型一并收集
// 入参所在包之外的类型标记为 External，只展开其嵌入字段
// 运行时无法枚举常量，因此 Enum 为空
func FromReflect(types ...reflect.Type) []*TypeInfo {
	roots := make(map[string]bool)
	for _, t := range types {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		roots[t.PkgPath()] = true
	}

	seen := make(map[reflect.Type]bool)
	var out []*TypeInfo
	var visit func(t reflect.Type, embedded bool)
	visit = func(t reflect.Type, embedded bool) {
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		if t.Kind() == reflect.Map {
			visit(t.Key(), false)
			visit(t.Elem(), false)
			return
		}
		if t.Name() == "" || t.PkgPath() == "" || seen[t] {
			return
		}
		external := !roots[t.PkgPath()]
		if external && !embedded {
			return
		}
		seen[t] = true

		info := &TypeInfo{
			Name:     t.Name(),
			PkgPath:  t.PkgPath(),
			PkgName:  pkgNameOf(t),
			External: external,
		}
		if t.Kind() != reflect.Struct {
			underlying := Basic(t.Kind().String())
			info.Underlying = &underlying
			out = append(out, info)
			return
		}

		info.IsStruct = true
		out = append(out, info)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			info.Fields = append(info.Fields, Field{
				Name:     sf.Name,
				Type:     RefOf(sf.Type),
				Tag:      string(sf.Tag),
				Embedded: sf.Anonymous,
				Exported: sf.IsExported(),
			})
			visit(sf.Type, sf.Anonymous)
		}
	}
	for _, t := range types {
		visit(t, false)
	}
	return out
}

// pkgNameOf 从 String() 中取包名，例如 models.Category -> models
func pkgNameOf(t reflect.Type) string {
	s := t.String()
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i]
		}
	}
	return LastSegment(t.PkgPath())
}
