package plugin

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/internal/utils"
	"github.com/donutnomad/gg"
)

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Output   string // 命令行 -output，优先级最低
	Async    bool   // 不同生成器并发执行
	Logger   *logger.Logger
}

// RunStats 运行统计
type RunStats struct {
	ScanDuration     time.Duration
	GenerateDuration time.Duration
	TotalDuration    time.Duration
	TargetCount      int
	FileCount        int // 实际写入的文件数
	UnchangedCount   int
}

// Run 扫描注解、分发给生成器并写入输出
// 同一路径的多个 gg 定义合并为一个文件；任一生成器出错时其余生成器的输出照常写入
func Run(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	totalStart := time.Now()
	stats := &RunStats{}

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}
	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, fmt.Errorf("没有已注册的生成器")
	}

	scanStart := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(annotations...),
		WithScannerVerbose(opts.Verbose),
	)
	result, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	stats.ScanDuration = time.Since(scanStart)
	stats.TargetCount = len(result.Targets)

	if stats.TargetCount == 0 {
		if opts.Verbose {
			fmt.Println("没有找到任何带注解的目标")
		}
		stats.TotalDuration = time.Since(totalStart)
		return stats, nil
	}
	if opts.Verbose {
		fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
	}

	generateStart := time.Now()
	dispatch := registry.DispatchTargets(result)
	genNames := slices.Sorted(maps.Keys(dispatch))

	var allErrors []error

	// 参数先串行解析，生成器并发执行时只读
	for _, genName := range genNames {
		gen, _ := registry.GetByName(genName)
		bound := dispatch[genName][:0]
		for _, target := range dispatch[genName] {
			if err := bindParams(gen, target); err != nil {
				allErrors = append(allErrors, fmt.Errorf("%s: %w", target.Target.Position, err))
				continue
			}
			bound = append(bound, target)
		}
		dispatch[genName] = bound
	}

	type genResultItem struct {
		genName string
		result  *GenerateResult
		err     error
	}
	execute := func(genName string) genResultItem {
		gen, _ := registry.GetByName(genName)
		targets := dispatch[genName]
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (%d 个目标)\n", genName, len(targets))
		}
		start := time.Now()
		genResult, err := gen.Generate(&GenerateContext{
			Context:        ctx,
			Targets:        targets,
			PackageConfigs: result.PackageConfigs,
			DefaultOutput:  opts.Output,
			Verbose:        opts.Verbose,
			Logger:         opts.Logger,
		})
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (耗时: %v)\n", genName, time.Since(start))
		}
		return genResultItem{genName: genName, result: genResult, err: err}
	}

	items := make([]genResultItem, len(genNames))
	if opts.Async {
		var wg sync.WaitGroup
		for i, genName := range genNames {
			wg.Add(1)
			go func() {
				defer wg.Done()
				items[i] = execute(genName)
			}()
		}
		wg.Wait()
	} else {
		for i, genName := range genNames {
			items[i] = execute(genName)
		}
	}

	fileDefinitions := make(map[string][]*gg.Generator)
	fileGenNames := make(map[string][]string)
	assets := make(map[string][]byte)
	for _, item := range items {
		if item.err != nil {
			allErrors = append(allErrors, fmt.Errorf("生成器 %s 执行失败: %w", item.genName, item.err))
			continue
		}
		if item.result == nil {
			continue
		}
		for path, def := range item.result.Definitions {
			fileDefinitions[path] = append(fileDefinitions[path], def)
			fileGenNames[path] = append(fileGenNames[path], item.genName)
		}
		for path, content := range item.result.Assets {
			if _, ok := assets[path]; ok {
				allErrors = append(allErrors, fmt.Errorf("文件 %s 被多个生成器输出", path))
				continue
			}
			assets[path] = content
		}
		allErrors = append(allErrors, item.result.Errors...)
	}

	report := func(path string, written bool, err error) {
		switch {
		case err != nil:
			allErrors = append(allErrors, fmt.Errorf("写入文件 %s 失败: %w", path, err))
		case written:
			stats.FileCount++
			fmt.Printf("生成文件: %s\n", path)
		default:
			stats.UnchangedCount++
		}
	}

	for _, path := range slices.Sorted(maps.Keys(fileDefinitions)) {
		merged, err := mergeDefinitions(fileDefinitions[path], fileGenNames[path])
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("合并文件 %s 的定义失败: %w", path, err))
			continue
		}
		written, err := writeGGFile(path, merged)
		report(path, written, err)
	}
	for _, path := range slices.Sorted(maps.Keys(assets)) {
		written, err := utils.WriteFile(path, assets[path])
		report(path, written, err)
	}

	stats.GenerateDuration = time.Since(generateStart)
	stats.TotalDuration = time.Since(totalStart)

	if len(allErrors) > 0 {
		for _, e := range allErrors {
			fmt.Printf("错误: %v\n", e)
		}
		return stats, fmt.Errorf("生成过程中出现 %d 个错误", len(allErrors))
	}
	return stats, nil
}

// bindParams 将目标上属于 gen 的注解参数解析为 gen 的参数结构体
func bindParams(gen Generator, target *AnnotatedTarget) error {
	proto := gen.NewParams()
	if proto == nil {
		return nil
	}
	ann := target.Annotation(gen.Annotations()...)
	if ann == nil {
		return nil
	}
	if err := ParseAnnotationParams(ann, proto, gen.ParamDefs()); err != nil {
		return fmt.Errorf("解析 @%s 参数失败: %w", ann.Name, err)
	}
	target.ParsedParams = proto
	return nil
}

// mergeDefinitions 合并同一文件的多个定义
// 多个生成器输出到同一文件时以分隔注释区分
func mergeDefinitions(definitions []*gg.Generator, genNames []string) (*gg.Generator, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("没有定义需要合并")
	}
	if len(definitions) == 1 {
		return definitions[0], nil
	}

	var pkgName string
	for _, def := range definitions {
		switch {
		case def.PackageName() == "":
		case pkgName == "":
			pkgName = def.PackageName()
		case pkgName != def.PackageName():
			return nil, fmt.Errorf("包名不一致: %s vs %s", pkgName, def.PackageName())
		}
	}

	merged := gg.New()
	merged.SetHeader(codemodel.Header)
	merged.SetPackage(pkgName)
	for i, def := range definitions {
		merged.Body().AddLine()
		merged.Body().AddString(fmt.Sprintf("// ================ %s ================", genNames[i]))
		merged.Body().AddLine()
		merged.Merge(def)
	}
	return merged, nil
}

func writeGGFile(path string, gen *gg.Generator) (bool, error) {
	return utils.WriteFormat(path, gen.Bytes())
}

// OutputDir 计算目标的输出根目录，未配置时返回空字符串
// 优先级：注解 output 参数 > 包级插件配置 > 包级默认配置 > 命令行 -output
// 相对路径相对于源文件目录；支持模板变量 $FILE（源文件名，不含 .go）与 $PACKAGE（包名）
func OutputDir(target *Target, ann *Annotation, pkgConfig *PackageConfig, pluginName, cmdOutput string) string {
	var output string
	if ann != nil {
		output = ann.GetParam("output")
	}
	if output == "" {
		output = pkgConfig.GetPluginOutput(strings.ToLower(pluginName))
	}
	if output == "" {
		output = cmdOutput
	}
	if output == "" {
		return ""
	}

	output = replaceTemplateVars(output, target)
	if filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	return filepath.Join(target.Dir(), output)
}

func replaceTemplateVars(template string, target *Target) string {
	fileName := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	template = strings.ReplaceAll(template, "$FILE", fileName)
	return strings.ReplaceAll(template, "$PACKAGE", target.PackageName)
}
