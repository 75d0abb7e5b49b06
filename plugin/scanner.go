package plugin

import (
	"bufio"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段按行匹配注释，筛出可能带注解或指令的文件；第二阶段只对这些文件做 AST 解析
type Scanner struct {
	workers int
	verbose bool

	annotationFilter []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) {
		s.verbose = v
	}
}

// WithAnnotationFilter 只保留指定名称的注解
func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DirectivePrefix 包级配置指令，//go:crudgen: 与 // go:crudgen: 均可
const DirectivePrefix = "go:crudgen:"

var (
	quickMatchRegex = regexp.MustCompile(`@(\w+)`)
	directiveRegex  = regexp.MustCompile(`go:crudgen:\s*(.*)`)
)

// GeneratedSuffix 生成文件的后缀，扫描时跳过
var GeneratedSuffix = []string{"_gen.go", "_test.go"}

// Scan 扫描指定路径，支持 ./... ./pkg/... ./pkg 与单个文件
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	files, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	matched := parallel(ctx, s.workers, files, func(file string) bool {
		ok, err := s.QuickMatchFile(file)
		return err == nil && ok
	})
	var candidates []string
	for i, ok := range matched {
		if ok {
			candidates = append(candidates, files[i])
		}
	}

	parsed := parallel(ctx, s.workers, candidates, s.parseFile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ScanResult{PackageConfigs: make(map[string]*PackageConfig)}
	for i, r := range parsed {
		if r.err != nil {
			if s.verbose {
				fmt.Printf("警告: 解析 %s 失败: %v\n", candidates[i], r.err)
			}
			continue
		}
		result.Targets = append(result.Targets, r.targets...)
		if r.config == nil {
			continue
		}
		existing, ok := result.PackageConfigs[r.config.PackageDir]
		if !ok {
			result.PackageConfigs[r.config.PackageDir] = r.config
			continue
		}
		if existing.merge(r.config) {
			fmt.Printf("警告: 包 %s 中存在多个不同的 go:crudgen 输出配置，使用后发现的配置\n", r.config.PackageDir)
		}
	}

	slices.SortFunc(result.Targets, func(a, b *AnnotatedTarget) int {
		if c := strings.Compare(a.Target.FilePath, b.Target.FilePath); c != 0 {
			return c
		}
		return a.Target.Position.Offset - b.Target.Position.Offset
	})
	return result, nil
}

// parallel 用固定数量的工作者处理 items，结果与输入一一对应
func parallel[T any](ctx context.Context, workers int, items []string, fn func(string) T) []T {
	results := make([]T, len(items))
	if len(items) == 0 {
		return results
	}
	indexCh := make(chan int)

	var wg sync.WaitGroup
	for range min(workers, len(items)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				results[i] = fn(items[i])
			}
		}()
	}

send:
	for i := range items {
		select {
		case <-ctx.Done():
			break send
		case indexCh <- i:
		}
	}
	close(indexCh)
	wg.Wait()
	return results
}

// QuickMatchFile 检查文件注释中是否含有注解或 go:crudgen 指令
// dev 模式也用它判断变动的文件是否需要触发生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "//") && !strings.HasPrefix(line, "/*") {
			continue
		}
		if strings.Contains(line, DirectivePrefix) {
			return true, nil
		}
		for _, match := range quickMatchRegex.FindAllStringSubmatch(line, -1) {
			if len(s.annotationFilter) == 0 || slices.Contains(s.annotationFilter, match[1]) {
				return true, nil
			}
		}
	}
	return false, sc.Err()
}

type fileResult struct {
	targets []*AnnotatedTarget
	config  *PackageConfig
	err     error
}

func (s *Scanner) parseFile(filePath string) fileResult {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return fileResult{err: err}
	}

	result := fileResult{config: s.parsePackageConfig(file, filePath)}
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, ok := ts.Type.(*ast.StructType); !ok {
				continue
			}
			// 单个类型声明的注释挂在 GenDecl 上，分组声明挂在 TypeSpec 上
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			annotations := s.annotationsOf(doc)
			if len(annotations) == 0 {
				continue
			}
			result.targets = append(result.targets, &AnnotatedTarget{
				Target: &Target{
					Name:        ts.Name.Name,
					PackageName: file.Name.Name,
					FilePath:    filePath,
					Position:    fset.Position(ts.Pos()),
				},
				Annotations: annotations,
			})
		}
	}
	return result
}

func (s *Scanner) annotationsOf(doc *ast.CommentGroup) []*Annotation {
	if doc == nil {
		return nil
	}
	return FilterByNames(ParseAnnotations(doc.Text()), s.annotationFilter...)
}

// collectFiles 收集需要扫描的文件，跳过隐藏目录、vendor、testdata 与生成文件
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "/...")
		absPath, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") {
				add(absPath)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == absPath {
					return nil
				}
				name := d.Name()
				if !recursive || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
					name == "vendor" || name == "testdata" {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// IsSourceFile 是否为需要扫描的 Go 源文件
func IsSourceFile(path string) bool {
	if !strings.HasSuffix(path, ".go") {
		return false
	}
	for _, suffix := range GeneratedSuffix {
		if strings.HasSuffix(path, suffix) {
			return false
		}
	}
	return true
}

// Scan 使用默认扫描器
func Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	return NewScanner().Scan(ctx, patterns...)
}

// parsePackageConfig 解析文件中的 go:crudgen 指令，同一文件只允许一条
func (s *Scanner) parsePackageConfig(file *ast.File, filePath string) *PackageConfig {
	var lines []string
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimPrefix(c.Text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			if m := directiveRegex.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
				lines = append(lines, m[1])
			}
		}
	}

	switch len(lines) {
	case 0:
		return nil
	case 1:
		return parseDirective(lines[0], filepath.Dir(filePath))
	default:
		fmt.Printf("警告: 文件 %s 定义了多个 go:crudgen 指令，将被忽略\n", filePath)
		return nil
	}
}

// parseDirective 解析单条指令
//
//	-output `xxx`                          对所有插件生效
//	plugin:crud -output `xxx`              只对 crud 插件生效
func parseDirective(line, pkgDir string) *PackageConfig {
	config := &PackageConfig{
		PackageDir:    pkgDir,
		PluginOutputs: make(map[string]string),
	}

	parts := splitDirectiveArgs(strings.TrimSpace(line))
	var current string
	for i := 0; i < len(parts); i++ {
		switch {
		case strings.HasPrefix(parts[i], "plugin:"):
			current = strings.ToLower(strings.TrimPrefix(parts[i], "plugin:"))
		case parts[i] == "-output" && i+1 < len(parts):
			i++
			output := trimQuotes(parts[i])
			if current == "" {
				config.DefaultOutput = output
			} else {
				config.PluginOutputs[current] = output
			}
		}
	}

	if config.DefaultOutput == "" && len(config.PluginOutputs) == 0 {
		return nil
	}
	return config
}

// splitDirectiveArgs 按空白分割，引号内的空白保留
func splitDirectiveArgs(line string) []string {
	var parts []string
	var current strings.Builder
	var quote byte

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == 0 && (c == '`' || c == '"' || c == '\''):
			quote = c
			current.WriteByte(c)
		case quote != 0 && c == quote:
			quote = 0
			current.WriteByte(c)
		case quote == 0 && (c == ' ' || c == '\t'):
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return parts
}

func trimQuotes(s string) string {
	if len(s) >= 2 && strings.ContainsRune("`\"'", rune(s[0])) && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
