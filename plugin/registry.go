package plugin

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry 注解注册表
// 一个注解只绑定一个生成器
type Registry struct {
	mu sync.RWMutex

	annotations map[string]Generator // 注解名 -> 生成器
	generators  map[string]Generator // 生成器名 -> 生成器
}

func NewRegistry() *Registry {
	return &Registry{
		annotations: make(map[string]Generator),
		generators:  make(map[string]Generator),
	}
}

// Register 注册生成器，注解已被其他生成器绑定时返回错误
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := gen.Name()
	if _, ok := r.generators[name]; ok {
		return fmt.Errorf("生成器 %q 已注册", name)
	}
	for _, ann := range gen.Annotations() {
		if existing, ok := r.annotations[ann]; ok {
			return fmt.Errorf("注解 @%s 已被生成器 %q 绑定，无法被 %q 再次绑定",
				ann, existing.Name(), name)
		}
	}

	r.generators[name] = gen
	for _, ann := range gen.Annotations() {
		r.annotations[ann] = gen
	}
	return nil
}

// MustRegister 注册失败时 panic
func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

func (r *Registry) GetByAnnotation(annotation string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.annotations[annotation]
	return gen, ok
}

func (r *Registry) GetByName(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	return gen, ok
}

// Generators 按名称排序返回
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Sorted(maps.Keys(r.generators))
	result := make([]Generator, 0, len(names))
	for _, name := range names {
		result = append(result, r.generators[name])
	}
	return result
}

// Annotations 已注册的注解，已排序
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.annotations))
}

// DispatchTargets 将扫描结果分发给生成器
// 返回 生成器名 -> 目标；同一目标的多个注解绑定同一生成器时只分发一次
func (r *Registry) DispatchTargets(result *ScanResult) map[string][]*AnnotatedTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dispatch := make(map[string][]*AnnotatedTarget)
	for _, target := range result.Targets {
		seen := make(map[string]bool)
		for _, ann := range target.Annotations {
			gen, ok := r.annotations[ann.Name]
			if !ok || seen[gen.Name()] {
				continue
			}
			seen[gen.Name()] = true
			dispatch[gen.Name()] = append(dispatch[gen.Name()], target)
		}
	}
	return dispatch
}

var globalRegistry = NewRegistry()

// Global 返回全局注册表
func Global() *Registry {
	return globalRegistry
}

// Register 向全局注册表注册生成器
func Register(gen Generator) error {
	return globalRegistry.Register(gen)
}

// MustRegister 向全局注册表注册生成器，失败时 panic
func MustRegister(gen Generator) {
	globalRegistry.MustRegister(gen)
}
