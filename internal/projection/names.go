package projection

import (
	"strings"

	"github.com/donutnomad/crudgen/internal/typemodel"
)

// canonicalPackages 常用包路径到包名的规范表
var canonicalPackages = map[string]string{
	"time":                          "time",
	"database/sql":                  "sql",
	"encoding/json":                 "json",
	"github.com/google/uuid":        "uuid",
	"github.com/shopspring/decimal": "decimal",
	"gorm.io/gorm":                  "gorm",
	"gorm.io/datatypes":             "datatypes",
	"gopkg.in/yaml.v3":              "yaml",
	"github.com/gin-gonic/gin":      "gin",
	"github.com/samber/lo":          "lo",
	"github.com/spf13/cast":         "cast",
}

// PackageNamer 返回包路径到包名的解析函数
// 优先规范表，其次快照中的包名，最后按路径推断
func PackageNamer(u typemodel.Universe) func(pkgPath string) string {
	known := make(map[string]string)
	if u != nil {
		for _, t := range u.All() {
			if t.PkgName != "" {
				known[t.PkgPath] = t.PkgName
			}
		}
	}
	return func(pkgPath string) string {
		if name, ok := canonicalPackages[pkgPath]; ok {
			return name
		}
		if name, ok := known[pkgPath]; ok {
			return name
		}
		return GuessPackageName(pkgPath)
	}
}

// GuessPackageName 按导入路径推断包名: 去掉版本后缀与 go- 前缀
func GuessPackageName(pkgPath string) string {
	segments := strings.Split(pkgPath, "/")
	name := segments[len(segments)-1]
	if isMajorVersion(name) && len(segments) > 1 {
		name = segments[len(segments)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.NewReplacer("-", "", ".", "").Replace(name)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
