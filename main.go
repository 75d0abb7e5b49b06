package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/donutnomad/crudgen/crudgen"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/plugin"
)

func init() {
	plugin.MustRegister(crudgen.NewGenerator())
}

var (
	verbose = flag.Bool("v", false, "详细输出")
	help    = flag.Bool("h", false, "显示帮助信息")
	output  = flag.String("output", "", "输出根目录（支持模板变量 $FILE, $PACKAGE），默认为实体所在包的上一级目录")
	async   = flag.Bool("async", true, "异步执行生成器（默认 true）")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		runGen([]string{"./..."})
		return
	}

	switch args[0] {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	default:
		runGen(args)
	}
}

func newLogger() *logger.Logger {
	return logger.New(logger.Config{Verbose: *verbose, Console: true})
}

func runGen(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, _ int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	stats, err := plugin.Run(context.Background(), &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   *output,
		Async:    *async,
		Logger:   newLogger(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		fmt.Printf("\n统计: 扫描 %d 个目标, 生成 %d 个文件, %d 个未变化\n", stats.TargetCount, stats.FileCount, stats.UnchangedCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `crudgen - 基于 gorm 实体生成 DTO、服务、gin 控制器与页面模板

用法:
  crudgen [选项] [路径...]
  crudgen gen [选项] [路径...]
  crudgen dev [选项] [路径...]

命令:
  gen     执行代码生成（默认）
  dev     启动开发模式，监听文件变动自动生成

路径:
  支持 Go 包路径模式，如:
    ./...          递归扫描当前目录及子目录（默认）
    ./model/...    递归扫描指定目录

选项:
`)
	flag.PrintDefaults()

	registry := plugin.Global()
	if len(registry.Generators()) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
		_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(registry))
	}

	_, _ = fmt.Fprintf(os.Stderr, `模块配置:
  模块根目录下的 %s 为注解未给出的参数提供默认值

模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名

示例:
  crudgen                                   扫描当前目录（默认 ./...）
  crudgen -v ./model/...                    详细模式扫描 model 目录
  crudgen -output ./internal ./...          各层输出到 internal 下
  crudgen dev ./...                         开发模式，监听文件变动
`, crudgen.ConfigFile)
}
