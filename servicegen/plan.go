package servicegen

import (
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
)

// Operation 服务方法
type Operation int

const (
	OpCreate Operation = iota + 1
	OpGetAll
	OpFilter
	OpGetByID
	OpUpdate
	OpDelete
)

// Operations 固定输出顺序
var Operations = []Operation{OpCreate, OpGetAll, OpFilter, OpGetByID, OpUpdate, OpDelete}

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "Create"
	case OpGetAll:
		return "GetAll"
	case OpFilter:
		return "Filter"
	case OpGetByID:
		return "GetByID"
	case OpUpdate:
		return "Update"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// StepKind 语句种类
type StepKind int

const (
	StepMap StepKind = iota + 1
	StepResolveCollection
	StepResolveSingle
	StepInsert
	StepSave
	StepReplaceAssociation
	StepLookup
	StepNotFound
	StepFetch
	StepCount
	StepPage
	StepSnapshot
	StepRemove
	StepCommit
	StepReturn
)

func (k StepKind) String() string {
	switch k {
	case StepMap:
		return "map"
	case StepResolveCollection:
		return "resolve-collection"
	case StepResolveSingle:
		return "resolve-single"
	case StepInsert:
		return "insert"
	case StepSave:
		return "save"
	case StepReplaceAssociation:
		return "replace-association"
	case StepLookup:
		return "lookup"
	case StepNotFound:
		return "not-found"
	case StepFetch:
		return "fetch"
	case StepCount:
		return "count"
	case StepPage:
		return "page"
	case StepSnapshot:
		return "snapshot"
	case StepRemove:
		return "remove"
	case StepCommit:
		return "commit"
	case StepReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Copy 输入字段到实体成员的直接赋值
type Copy struct {
	Field  string
	Member string
}

// Step 一条语句
type Step struct {
	Kind StepKind

	// StepMap
	Identity bool
	Copies   []Copy

	// StepResolveCollection / StepResolveSingle / StepReplaceAssociation
	Member  string
	Field   string
	Target  typemodel.TypeRef // 引用实体类型
	Column  string            // 引用实体主键列
	Pointer bool              // 单导航成员为指针
	Reset   bool              // 解析前清空已有关联

	// StepLookup / StepFetch / StepPage
	Preloads []string

	// StepReturn / StepSnapshot
	Mapped bool
	Source string
}

// Plan 一个服务方法的语句序列
type Plan struct {
	Operation     Operation
	Transactional bool
	Steps         []Step
	// Skipped 类型不一致未生成赋值的字段
	Skipped []string
}

// Kinds 返回语句种类序列
func (p Plan) Kinds() []StepKind {
	out := make([]StepKind, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Kind
	}
	return out
}

// Find 返回第一条指定种类的语句
func (p Plan) Find(kind StepKind) (Step, bool) {
	for _, s := range p.Steps {
		if s.Kind == kind {
			return s, true
		}
	}
	return Step{}, false
}

// BuildPlans 为全部服务方法生成语句序列
func BuildPlans(m *projection.Model) []Plan {
	return []Plan{
		planCreate(m),
		planGetAll(m),
		planFilter(m),
		planGetByID(m),
		planUpdate(m),
		planDelete(m),
	}
}

// BuildPlan 生成单个服务方法的语句序列
func BuildPlan(m *projection.Model, op Operation) Plan {
	for _, p := range BuildPlans(m) {
		if p.Operation == op {
			return p
		}
	}
	return Plan{Operation: op}
}

func viewMapped(m *projection.Model) bool {
	return !m.Shape(typemodel.ShapeViewModel).IsEntity
}

// planCreate 映射，解析集合与合成外键，插入，提交，返回
func planCreate(m *projection.Model) Plan {
	p := Plan{Operation: OpCreate, Transactional: true}
	shape := m.Shape(typemodel.ShapeCreation)
	if shape.IsEntity {
		p.Steps = append(p.Steps, Step{Kind: StepMap, Identity: true})
	} else {
		copies, skipped := scalarCopies(m, typemodel.ShapeCreation)
		p.Skipped = skipped
		p.Steps = append(p.Steps, Step{Kind: StepMap, Copies: copies})
		p.Steps = append(p.Steps, resolutions(m, typemodel.ShapeCreation, false)...)
	}
	p.Steps = append(p.Steps,
		Step{Kind: StepInsert},
		Step{Kind: StepCommit},
		Step{Kind: StepReturn, Mapped: viewMapped(m), Source: "entity"},
	)
	return p
}

func planGetAll(m *projection.Model) Plan {
	return Plan{
		Operation: OpGetAll,
		Steps: []Step{
			{Kind: StepFetch, Preloads: m.Preloads()},
			{Kind: StepReturn, Mapped: viewMapped(m), Source: "entities"},
		},
	}
}

func planFilter(m *projection.Model) Plan {
	return Plan{
		Operation: OpFilter,
		Steps: []Step{
			{Kind: StepCount},
			{Kind: StepPage, Preloads: m.Preloads()},
			{Kind: StepReturn, Mapped: viewMapped(m), Source: "page"},
		},
	}
}

func planGetByID(m *projection.Model) Plan {
	return Plan{
		Operation: OpGetByID,
		Steps: []Step{
			{Kind: StepLookup, Preloads: m.Preloads()},
			{Kind: StepNotFound},
			{Kind: StepReturn, Mapped: viewMapped(m), Source: "entity"},
		},
	}
}

// planUpdate 查找，覆盖标量，重新解析关联，保存，替换集合关联，提交，返回
func planUpdate(m *projection.Model) Plan {
	p := Plan{Operation: OpUpdate, Transactional: true}
	p.Steps = append(p.Steps,
		Step{Kind: StepLookup, Preloads: m.Preloads()},
		Step{Kind: StepNotFound},
	)
	copies, skipped := scalarCopies(m, typemodel.ShapeModification)
	p.Skipped = skipped
	p.Steps = append(p.Steps, Step{Kind: StepMap, Copies: copies})

	resolved := resolutions(m, typemodel.ShapeModification, true)
	p.Steps = append(p.Steps, resolved...)
	p.Steps = append(p.Steps, Step{Kind: StepSave})
	for _, s := range resolved {
		if s.Kind == StepResolveCollection {
			p.Steps = append(p.Steps, Step{Kind: StepReplaceAssociation, Member: s.Member})
		}
	}
	p.Steps = append(p.Steps,
		Step{Kind: StepCommit},
		Step{Kind: StepReturn, Mapped: viewMapped(m), Source: "entity"},
	)
	return p
}

// planDelete 查找，快照，删除，提交，返回快照
func planDelete(m *projection.Model) Plan {
	return Plan{
		Operation:     OpDelete,
		Transactional: true,
		Steps: []Step{
			{Kind: StepLookup, Preloads: m.Preloads()},
			{Kind: StepNotFound},
			{Kind: StepSnapshot, Mapped: viewMapped(m)},
			{Kind: StepRemove},
			{Kind: StepCommit},
			{Kind: StepReturn, Mapped: viewMapped(m), Source: "snapshot"},
		},
	}
}

// scalarCopies 输入形状中可直接赋值给实体的标量字段，主键除外
func scalarCopies(m *projection.Model, kind typemodel.ShapeKind) ([]Copy, []string) {
	var copies []Copy
	var skipped []string
	for _, r := range m.Rules(kind) {
		if r.Mode != projection.ScalarCopy || r.Member.IsPrimaryKey || r.Member.Kind != typemodel.KindScalar {
			continue
		}
		if !m.HasField(kind, r) {
			if !m.Shape(kind).IsEntity {
				if _, ok := projection.FieldType(m.Universe, m.Shape(kind).Type, r.Field); ok {
					skipped = append(skipped, r.Field)
				}
			}
			continue
		}
		copies = append(copies, Copy{Field: r.Field, Member: r.Member.Name})
	}
	return copies, skipped
}

// resolutions 外键列表按包含查询解析，合成外键按主键单行查询解析
// 非合成的单导航外键由实体上的标量 {M}Id 直接赋值承担
func resolutions(m *projection.Model, kind typemodel.ShapeKind, reset bool) []Step {
	if m.Shape(kind).IsEntity {
		return nil
	}
	var out []Step
	for _, r := range projection.Exposed(m.Rules(kind)) {
		rel := r.Relationship
		if rel == nil || rel.TargetKey == nil {
			continue
		}
		step := Step{
			Member: r.Member.Name,
			Field:  r.Field,
			Target: rel.Target.Ref(),
			Column: rel.TargetKey.Column,
			Reset:  reset,
		}
		switch {
		case r.Mode == projection.ForeignKeyList:
			step.Kind = StepResolveCollection
		case rel.Synthesized:
			step.Kind = StepResolveSingle
			step.Pointer = r.Member.Type.IsPointer()
		default:
			continue
		}
		out = append(out, step)
	}
	return out
}
