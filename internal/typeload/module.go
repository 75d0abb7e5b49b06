package typeload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ErrNoModule 目录不在任何 Go 模块中
var ErrNoModule = errors.New("go.mod not found")

// Module go.mod 所在模块
type Module struct {
	Root string // go.mod 所在目录（绝对路径）
	Path string // module path
}

// FindModule 从 dir 向上查找 go.mod
func FindModule(dir string) (*Module, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return nil, fmt.Errorf("%s/go.mod 缺少 module 声明", current)
			}
			return &Module{Root: current, Path: modulePath}, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoModule)
		}
		current = parent
	}
}

// ImportPath 计算模块内目录的导入路径
func (m *Module) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Root, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return m.Path, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s 不在模块 %s 内", dir, m.Path)
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}
