package crudgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/donutnomad/crudgen/plugin"
)

// ConfigFile 模块根目录下的可选配置文件
const ConfigFile = "crudgen.yaml"

// Config 模块级默认值，注解中显式给出的参数优先
//
//	context: AppDB
//	views: true
//	prefix: /admin
//	layout:
//	  dto: api/dto
//	irregulars:
//	  person: people
type Config struct {
	Context    string            `yaml:"context"`
	Dtos       []string          `yaml:"dtos"`
	Views      *bool             `yaml:"views"`
	Prefix     string            `yaml:"prefix"`
	Layout     LayoutConfig      `yaml:"layout"`
	Irregulars map[string]string `yaml:"irregulars"` // 路由复数化的不规则词
}

// LayoutConfig 各层输出目录
type LayoutConfig struct {
	Dto        string `yaml:"dto"`
	Service    string `yaml:"service"`
	Controller string `yaml:"controller"`
	Pages      string `yaml:"pages"`
}

// LoadConfig 读取 root 下的配置文件，文件不存在时返回空配置
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Apply 用配置填充注解未显式给出的参数
func (c *Config) Apply(params *CrudParams, ann *plugin.Annotation) {
	set := func(key string, dst *string, value string) {
		if value != "" && !ann.HasParam(key) {
			*dst = value
		}
	}
	set("context", &params.Context, c.Context)
	set("prefix", &params.Prefix, c.Prefix)
	set("dto", &params.Dto, c.Layout.Dto)
	set("service", &params.Service, c.Layout.Service)
	set("controller", &params.Controller, c.Layout.Controller)
	set("pages", &params.Pages, c.Layout.Pages)

	if len(c.Dtos) > 0 && !ann.HasParam("dtos") {
		params.Dtos = c.Dtos
	}
	if c.Views != nil && !ann.HasParam("views") {
		params.Views = *c.Views
	}
}

// registerIrregulars 注册不规则复数形式，影响后续的资源名推断
func (c *Config) registerIrregulars() {
	for singular, plural := range c.Irregulars {
		inflect.AddIrregular(singular, plural)
	}
}
