package typemodel

import (
	"errors"
	"strings"
)

var (
	// ErrMetadata 实体元数据不满足约定
	ErrMetadata = errors.New("crudgen: metadata error")
	// ErrAmbiguousContext 存在多个持久化上下文候选且未指定
	ErrAmbiguousContext = errors.New("crudgen: ambiguous persistence context")
	// ErrNoContext 没有找到持久化上下文
	ErrNoContext = errors.New("crudgen: no persistence context")
)

// MetadataError 元数据错误，Convention 描述未满足的约定
type MetadataError struct {
	Entity     string
	Member     string
	Convention string
}

func (e *MetadataError) Error() string {
	var b strings.Builder
	b.WriteString("crudgen: metadata error on ")
	b.WriteString(e.Entity)
	if e.Member != "" {
		b.WriteString(".")
		b.WriteString(e.Member)
	}
	if e.Convention != "" {
		b.WriteString(": ")
		b.WriteString(e.Convention)
	}
	return b.String()
}

func (e *MetadataError) Is(target error) bool {
	return target == ErrMetadata
}

// NewMetadataError 创建 MetadataError
func NewMetadataError(entity, member, convention string) *MetadataError {
	return &MetadataError{Entity: entity, Member: member, Convention: convention}
}

// IsMetadataError 判断是否为元数据错误
func IsMetadataError(err error) bool {
	var e *MetadataError
	return errors.As(err, &e)
}

// ContextError 持久化上下文发现失败
type ContextError struct {
	Name       string   // 显式指定的名称，可为空
	Candidates []string // 候选类型
	Cause      error    // ErrAmbiguousContext 或 ErrNoContext
}

func (e *ContextError) Error() string {
	var b strings.Builder
	b.WriteString(e.Cause.Error())
	if e.Name != "" {
		b.WriteString(" named ")
		b.WriteString(e.Name)
	}
	if len(e.Candidates) > 0 {
		b.WriteString(" (candidates: ")
		b.WriteString(strings.Join(e.Candidates, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// IsContextError 判断是否为上下文发现错误
func IsContextError(err error) bool {
	var e *ContextError
	return errors.As(err, &e)
}
