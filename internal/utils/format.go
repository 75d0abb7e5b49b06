package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

// FormatSource 格式化 Go 源码并整理 imports
func FormatSource(filename string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("格式化 %s 失败: %w", filename, err)
	}
	return formatted, nil
}

// WriteFormat 格式化后写入文件，返回是否写入
// 格式化失败时写入原始内容，同时返回错误
func WriteFormat(filename string, src []byte) (bool, error) {
	formatted, err := FormatSource(filename, src)
	if err != nil {
		if _, werr := WriteFile(filename, src); werr != nil {
			return false, fmt.Errorf("写入文件失败: %w", werr)
		}
		return false, err
	}
	return WriteFile(filename, formatted)
}

// WriteFile 内容不变时不写入，返回是否写入
func WriteFile(filename string, content []byte) (bool, error) {
	if old, err := os.ReadFile(filename); err == nil && bytes.Equal(old, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return false, fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return false, err
	}
	return true, nil
}
