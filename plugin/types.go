package plugin

import (
	"context"
	"go/token"
	"maps"
	"path/filepath"
	"slices"

	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/gg"
)

// ParamDef 注解参数的元信息
type ParamDef struct {
	Name        string
	Required    bool
	Default     string
	Description string
}

// Annotation 解析后的注解，如 @Crud(views=true)
type Annotation struct {
	Name   string
	Params map[string]string // key 已转为小写
	Raw    string
}

// Target 带注解的结构体声明
type Target struct {
	Name        string
	PackageName string
	FilePath    string // 绝对路径
	Position    token.Position
}

// Dir 源文件所在目录
func (t *Target) Dir() string {
	return filepath.Dir(t.FilePath)
}

// AnnotatedTarget 目标及其注解
type AnnotatedTarget struct {
	Target       *Target
	Annotations  []*Annotation
	ParsedParams any // 由 Run 按生成器的参数原型填充
}

// Annotation 返回指定名称的注解
func (t *AnnotatedTarget) Annotation(names ...string) *Annotation {
	for _, ann := range t.Annotations {
		if slices.Contains(names, ann.Name) {
			return ann
		}
	}
	return nil
}

// ScanResult 扫描结果
type ScanResult struct {
	Targets []*AnnotatedTarget

	// key: 包目录
	PackageConfigs map[string]*PackageConfig
}

// ByAnnotation 按注解名称过滤
func (r *ScanResult) ByAnnotation(name string) []*AnnotatedTarget {
	var result []*AnnotatedTarget
	for _, t := range r.Targets {
		if t.Annotation(name) != nil {
			result = append(result, t)
		}
	}
	return result
}

// PackageConfig 包级生成配置
// 通过 // go:crudgen: 注释定义，同一包内任意文件均可声明
//
//	// go:crudgen: -output `../gen`
//	// go:crudgen: plugin:crud -output `../$PACKAGE_api`
type PackageConfig struct {
	PackageDir string

	// DefaultOutput 对所有插件生效
	DefaultOutput string

	// key: 插件名（小写）
	PluginOutputs map[string]string
}

// GetPluginOutput 插件特定配置优先，其次为默认配置
func (c *PackageConfig) GetPluginOutput(pluginName string) string {
	if c == nil {
		return ""
	}
	if output, ok := c.PluginOutputs[pluginName]; ok {
		return output
	}
	return c.DefaultOutput
}

// merge 合并同一包内另一文件的配置，冲突时返回 true
func (c *PackageConfig) merge(other *PackageConfig) bool {
	conflict := false
	if other.DefaultOutput != "" {
		conflict = c.DefaultOutput != "" && c.DefaultOutput != other.DefaultOutput
		c.DefaultOutput = other.DefaultOutput
	}
	for k, v := range other.PluginOutputs {
		if existing, ok := c.PluginOutputs[k]; ok && existing != v {
			conflict = true
		}
		c.PluginOutputs[k] = v
	}
	return conflict
}

// GenerateContext 传递给 Generator 的上下文
type GenerateContext struct {
	Context        context.Context
	Targets        []*AnnotatedTarget
	PackageConfigs map[string]*PackageConfig
	DefaultOutput  string // 命令行 -output，优先级最低
	Verbose        bool
	Logger         *logger.Logger
}

// PackageConfig 获取目标所在包的配置
func (c *GenerateContext) PackageConfig(target *Target) *PackageConfig {
	if c.PackageConfigs == nil {
		return nil
	}
	return c.PackageConfigs[target.Dir()]
}

// Log 返回日志实例，未设置时丢弃输出
func (c *GenerateContext) Log() *logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}
	return c.Logger
}

// GenerateResult 生成结果
// Go 源文件以 gg 定义返回，由 Run 统一合并、格式化并写入；其他文件原样写入
type GenerateResult struct {
	// key: 输出文件路径
	Definitions map[string]*gg.Generator
	Assets      map[string][]byte

	Errors  []error
	Skipped int
}

func NewGenerateResult() *GenerateResult {
	return &GenerateResult{
		Definitions: make(map[string]*gg.Generator),
		Assets:      make(map[string][]byte),
	}
}

// AddDefinition 添加 gg 定义
func (r *GenerateResult) AddDefinition(path string, gen *gg.Generator) {
	if r.Definitions == nil {
		r.Definitions = make(map[string]*gg.Generator)
	}
	r.Definitions[path] = gen
}

// AddAsset 添加非 Go 文件
func (r *GenerateResult) AddAsset(path string, content []byte) {
	if r.Assets == nil {
		r.Assets = make(map[string][]byte)
	}
	r.Assets[path] = content
}

func (r *GenerateResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}

func (r *GenerateResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Paths 返回全部输出路径，已排序
func (r *GenerateResult) Paths() []string {
	paths := slices.Collect(maps.Keys(r.Definitions))
	paths = append(paths, slices.Collect(maps.Keys(r.Assets))...)
	slices.Sort(paths)
	return paths
}
