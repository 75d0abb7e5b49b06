package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/tools/imports"

	"github.com/donutnomad/crudgen/crudgen"
	"github.com/donutnomad/crudgen/internal/logger"
	"github.com/donutnomad/crudgen/plugin"
)

const devDebounce = 2 * time.Second

// runDev 启动开发模式，监听源文件变动并重新生成
func runDev(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newDevWatcher(devOptions{
		Patterns: patterns,
		Output:   *output,
		Async:    *async,
		Verbose:  *verbose,
		Debounce: devDebounce,
		Logger:   newLogger(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

type devOptions struct {
	Patterns []string
	Output   string
	Async    bool
	Verbose  bool
	Debounce time.Duration
	Logger   *logger.Logger
}

// devWatcher 合并短时间内的变动，按触发的路径模式分别重新生成
type devWatcher struct {
	opts     devOptions
	log      *logger.Logger
	watcher  *fsnotify.Watcher
	scanner  *plugin.Scanner
	generate func(ctx context.Context, patterns []string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func newDevWatcher(opts devOptions) (*devWatcher, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听器失败: %w", err)
	}
	w := &devWatcher{
		opts:    opts,
		log:     opts.Logger.With("mode", "dev"),
		watcher: fw,
		scanner: plugin.NewScanner(plugin.WithAnnotationFilter(plugin.Global().Annotations()...)),
		pending: make(map[string]*time.Timer),
	}
	w.generate = w.runGenerate
	return w, nil
}

// Close 停止监听并取消尚未触发的生成
func (w *devWatcher) Close() error {
	w.mu.Lock()
	for key, timer := range w.pending {
		timer.Stop()
		delete(w.pending, key)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *devWatcher) Run(ctx context.Context) error {
	dirs, err := watchDirs(w.opts.Patterns)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}
	if len(dirs) == 0 {
		return errors.New("没有找到需要监听的目录")
	}
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("监听 %s 失败: %w", dir, err)
		}
		w.log.Debugf("监听目录: %s", dir)
	}

	fmt.Printf("开发模式已启动，监听 %d 个目录，按 Ctrl+C 退出\n\n", len(dirs))
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n正在退出...")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("监听错误: %v", err)
		}
	}
}

func (w *devWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipWatchDir(filepath.Base(path)) {
				if err := w.watcher.Add(path); err != nil {
					w.log.Warnf("监听 %s 失败: %v", path, err)
				}
			}
			return
		}
	}

	switch {
	case filepath.Base(path) == crudgen.ConfigFile:
		w.log.Infof("配置文件变化: %s", path)
		w.schedule(ctx, w.opts.Patterns)
	case isWatchedSource(path):
		w.sourceChanged(ctx, path)
	}
}

func (w *devWatcher) sourceChanged(ctx context.Context, path string) {
	matched, err := w.scanner.QuickMatchFile(path)
	if err != nil {
		w.log.Debugf("检查注解失败 %s: %v", path, err)
		return
	}
	if !matched {
		w.log.Debugf("跳过文件（无注解）: %s", path)
		return
	}
	if err := checkSyntax(path); err != nil {
		w.log.Warnf("语法错误 %s: %v", path, err)
		return
	}
	w.log.Debugf("检测到文件变化: %s", path)
	w.schedule(ctx, []string{filepath.Dir(path)})
}

// schedule 同一组路径模式在防抖时间内只生成一次
func (w *devWatcher) schedule(ctx context.Context, patterns []string) {
	key := strings.Join(patterns, "\x00")

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[key]; ok {
		timer.Stop()
	}
	w.pending[key] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, key)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.generate(ctx, patterns)
	})
}

func (w *devWatcher) runGenerate(ctx context.Context, patterns []string) {
	stats, err := plugin.Run(ctx, &plugin.RunOptions{
		Registry: plugin.Global(),
		Patterns: patterns,
		Verbose:  w.opts.Verbose,
		Output:   w.opts.Output,
		Async:    w.opts.Async,
		Logger:   w.opts.Logger,
	})
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}
	if stats.FileCount > 0 {
		fmt.Printf("生成完成: %d 个文件 (耗时: %v)\n", stats.FileCount, stats.TotalDuration)
	} else {
		w.log.Debugf("生成完成: 无文件变化")
	}
}

// checkSyntax 只检查语法，不修改文件
func checkSyntax(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = imports.Process(path, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true,
	})
	return err
}

func isWatchedSource(path string) bool {
	return plugin.IsSourceFile(path) && !strings.HasSuffix(path, "_test.go")
}

func skipWatchDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// watchDirs 展开路径模式，pattern 以 /... 结尾时包含全部子目录
func watchDirs(patterns []string) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		base, recursive := strings.CutSuffix(pattern, "/...")
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		if !recursive {
			dirs = append(dirs, abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != abs && skipWatchDir(d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}
