package servicegen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/crudgen/internal/codemodel"
	"github.com/donutnomad/crudgen/internal/projection"
	"github.com/donutnomad/crudgen/internal/typemodel"
)

// 生成代码中的局部变量名，导入包名不得与之冲突
var locals = []string{"ctx", "input", "id", "options", "tx", "db", "entity", "entities", "related", "result", "total", "snapshot", "err", "item", "vm", "s", "store"}

type renderer struct {
	m       *projection.Model
	imports *codemodel.ImportSet

	entityName string
	entity     string // 实体类型拼写
	view       string // 返回形状类型拼写
	keyType    string
	keyColumn  string
	crud       string
	iface      string
	impl       string
}

func newRenderer(m *projection.Model, imports *codemodel.ImportSet) *renderer {
	imports.Reserve(locals...)
	d := m.Entity
	key := m.Key()
	view := m.Shape(typemodel.ShapeViewModel).Type
	return &renderer{
		m:          m,
		imports:    imports,
		entityName: d.Name,
		entity:     imports.Spell(d.Info.Ref()),
		view:       imports.Spell(view.Ref()),
		keyType:    imports.Spell(key.Type),
		keyColumn:  key.Column,
		crud:       imports.Qualify(codemodel.RuntimePath),
		iface:      ServiceName(d.Name),
		impl:       implName(d.Name),
	}
}

// ServiceName 服务接口名
func ServiceName(entity string) string {
	return entity + "Service"
}

// ConstructorName 服务构造函数名
func ConstructorName(entity string) string {
	return "New" + ServiceName(entity)
}

func implName(entity string) string {
	return strings.ToLower(entity[:1]) + entity[1:] + "Service"
}

func mapperName(entity string) string {
	return "to" + entity + "ViewModel"
}

// signature 服务方法的参数与返回值
func (r *renderer) signature(op Operation) ([]codemodel.Param, []codemodel.Param) {
	ctx := codemodel.Param{Name: "ctx", Type: r.imports.Type("context", "Context")}
	id := codemodel.Param{Name: "id", Type: r.keyType}
	single := []codemodel.Param{{Type: "*" + r.view}, {Type: "error"}}

	switch op {
	case OpCreate:
		creation := r.m.Shape(typemodel.ShapeCreation).Type
		return []codemodel.Param{ctx, {Name: "input", Type: "*" + r.imports.Spell(creation.Ref())}}, single
	case OpGetAll:
		return []codemodel.Param{ctx}, []codemodel.Param{{Type: "[]*" + r.view}, {Type: "error"}}
	case OpFilter:
		return []codemodel.Param{ctx, {Name: "options", Type: r.crud + ".PaginationRequest"}},
			[]codemodel.Param{{Type: fmt.Sprintf("*%s.Page[%s]", r.crud, r.view)}, {Type: "error"}}
	case OpUpdate:
		modification := r.m.Shape(typemodel.ShapeModification).Type
		return []codemodel.Param{ctx, id, {Name: "input", Type: "*" + r.imports.Spell(modification.Ref())}}, single
	default:
		return []codemodel.Param{ctx, id}, single
	}
}

func (r *renderer) contract() *codemodel.Interface {
	docs := map[Operation]string{
		OpCreate:  "Create 创建" + r.entityName,
		OpGetAll:  "GetAll 返回全部" + r.entityName,
		OpFilter:  "Filter 分页查询",
		OpGetByID: "GetByID 按主键查询，不存在时返回 crud.ErrNotFound",
		OpUpdate:  "Update 按主键更新",
		OpDelete:  "Delete 按主键删除，返回删除前的数据",
	}
	iface := &codemodel.Interface{
		Doc:  fmt.Sprintf("%s %s 的 CRUD 服务", r.iface, r.entityName),
		Name: r.iface,
	}
	for _, op := range Operations {
		params, results := r.signature(op)
		iface.Methods = append(iface.Methods, codemodel.Method{
			Doc:     docs[op],
			Name:    op.String(),
			Params:  params,
			Results: results,
		})
	}
	return iface
}

func (r *renderer) implementation() []codemodel.Decl {
	store := "*" + r.imports.Spell(r.m.Context.Type.Ref())
	return []codemodel.Decl{
		&codemodel.Struct{
			Name:   r.impl,
			Fields: []codemodel.StructField{{Name: "store", Type: store}},
		},
		&codemodel.Func{
			Doc:     fmt.Sprintf("%s 创建 %s", ConstructorName(r.entityName), r.iface),
			Name:    ConstructorName(r.entityName),
			Params:  []codemodel.Param{{Name: "store", Type: store}},
			Results: []codemodel.Param{{Type: r.iface}},
			Body:    []string{fmt.Sprintf("return &%s{store: store}", r.impl)},
		},
		&codemodel.Raw{Name: "_", Text: fmt.Sprintf("var _ %s = (*%s)(nil)", r.iface, r.impl)},
	}
}

// method 将语句序列渲染为方法
func (r *renderer) method(p Plan) *codemodel.Func {
	params, results := r.signature(p.Operation)
	handle := "db"
	var body []string
	if p.Transactional {
		handle = "tx"
		body = append(body,
			fmt.Sprintf("tx := s.store.%s.WithContext(ctx).Begin()", r.m.Context.DBField),
			"if tx.Error != nil {\nreturn nil, tx.Error\n}",
			"defer tx.Rollback()",
		)
	} else {
		body = append(body, fmt.Sprintf("db := s.store.%s.WithContext(ctx)", r.m.Context.DBField))
	}
	for _, step := range p.Steps {
		body = append(body, r.step(p.Operation, handle, step)...)
	}
	return &codemodel.Func{
		Name:    p.Operation.String(),
		Recv:    &codemodel.Param{Name: "s", Type: "*" + r.impl},
		Params:  params,
		Results: results,
		Body:    body,
	}
}

func check(expr string) string {
	return fmt.Sprintf("if err := %s; err != nil {\nreturn nil, err\n}", expr)
}

func preload(handle string, preloads []string) string {
	var b strings.Builder
	b.WriteString(handle)
	for _, p := range preloads {
		fmt.Fprintf(&b, ".Preload(%q)", p)
	}
	return b.String()
}

func (r *renderer) step(op Operation, handle string, s Step) []string {
	switch s.Kind {
	case StepMap:
		return r.mapStep(op, s)
	case StepResolveCollection:
		var out []string
		if s.Reset {
			out = append(out, fmt.Sprintf("entity.%s = nil", s.Member))
		}
		query := fmt.Sprintf("%s.Where(%q, input.%s).Find(&entity.%s).Error", handle, s.Column+" IN ?", s.Field, s.Member)
		out = append(out, fmt.Sprintf("if len(input.%s) > 0 {\n%s\n}", s.Field, check(query)))
		return out
	case StepResolveSingle:
		target := r.imports.Spell(s.Target)
		assign := "*related"
		if s.Pointer {
			assign = "related"
		}
		return []string{strings.Join([]string{
			"{",
			fmt.Sprintf("related := new(%s)", target),
			fmt.Sprintf("result := %s.Where(%q, input.%s).Limit(1).Find(related)", handle, s.Column+" = ?", s.Field),
			"if result.Error != nil {\nreturn nil, result.Error\n}",
			fmt.Sprintf("if result.RowsAffected == 0 {\nreturn nil, %s.NotFound(%q, input.%s)\n}", r.crud, s.Target.Name, s.Field),
			fmt.Sprintf("entity.%s = %s", s.Member, assign),
			"}",
		}, "\n")}
	case StepInsert:
		return []string{check(handle + ".Create(entity).Error")}
	case StepSave:
		return []string{check(handle + ".Save(entity).Error")}
	case StepReplaceAssociation:
		return []string{check(fmt.Sprintf("%s.Model(entity).Association(%q).Replace(entity.%s)", handle, s.Member, s.Member))}
	case StepLookup:
		return []string{
			fmt.Sprintf("entity := new(%s)", r.entity),
			fmt.Sprintf("result := %s.Where(%q, id).Limit(1).Find(entity)", preload(handle, s.Preloads), r.keyColumn+" = ?"),
			"if result.Error != nil {\nreturn nil, result.Error\n}",
		}
	case StepNotFound:
		return []string{fmt.Sprintf("if result.RowsAffected == 0 {\nreturn nil, %s.NotFound(%q, id)\n}", r.crud, r.entityName)}
	case StepFetch:
		return []string{
			fmt.Sprintf("var entities []*%s", r.entity),
			check(fmt.Sprintf("%s.Order(%q).Find(&entities).Error", preload(handle, s.Preloads), r.keyColumn)),
		}
	case StepCount:
		return []string{
			"var total int64",
			check(fmt.Sprintf("%s.Model(&%s{}).Count(&total).Error", handle, r.entity)),
		}
	case StepPage:
		return []string{
			fmt.Sprintf("var entities []*%s", r.entity),
			check(fmt.Sprintf("%s.Order(%q).Offset(options.Skip()).Limit(options.Take()).Find(&entities).Error", preload(handle, s.Preloads), r.keyColumn)),
		}
	case StepSnapshot:
		if s.Mapped {
			return []string{fmt.Sprintf("snapshot := %s(entity)", mapperName(r.entityName))}
		}
		return []string{"snapshot := *entity"}
	case StepRemove:
		return []string{check(handle + ".Delete(entity).Error")}
	case StepCommit:
		return []string{check(handle + ".Commit().Error")}
	case StepReturn:
		return []string{r.returnStep(s)}
	default:
		return nil
	}
}

func (r *renderer) mapStep(op Operation, s Step) []string {
	if s.Identity {
		return []string{"entity := input"}
	}
	if op == OpCreate {
		lines := []string{fmt.Sprintf("entity := &%s{", r.entity)}
		for _, c := range s.Copies {
			lines = append(lines, fmt.Sprintf("%s: input.%s,", c.Member, c.Field))
		}
		lines = append(lines, "}")
		return []string{strings.Join(lines, "\n")}
	}
	out := make([]string, 0, len(s.Copies))
	for _, c := range s.Copies {
		out = append(out, fmt.Sprintf("entity.%s = input.%s", c.Member, c.Field))
	}
	return out
}

func (r *renderer) items() string {
	lo := r.imports.Qualify("github.com/samber/lo")
	return fmt.Sprintf("%s.Map(entities, func(item *%s, _ int) *%s {\nreturn %s(item)\n})", lo, r.entity, r.view, mapperName(r.entityName))
}

func (r *renderer) returnStep(s Step) string {
	switch s.Source {
	case "entities":
		if s.Mapped {
			return "return " + r.items() + ", nil"
		}
		return "return entities, nil"
	case "page":
		items := "entities"
		if s.Mapped {
			items = r.items()
		}
		return fmt.Sprintf("return &%s.Page[%s]{\nItems: %s,\nPagination: %s.NewMetadata(options, total),\n}, nil", r.crud, r.view, items, r.crud)
	case "snapshot":
		if s.Mapped {
			return "return snapshot, nil"
		}
		return "return &snapshot, nil"
	default:
		if s.Mapped {
			return fmt.Sprintf("return %s(entity), nil", mapperName(r.entityName))
		}
		return "return entity, nil"
	}
}

// mapper 实体到 ViewModel 的映射函数
func (r *renderer) mapper() *codemodel.Func {
	var literal []string
	var after []string
	for _, rule := range projection.Fields(r.m.Rules(typemodel.ShapeViewModel)) {
		if !r.m.HasField(typemodel.ShapeViewModel, rule) {
			continue
		}
		switch rule.Mode {
		case projection.ScalarCopy:
			literal = append(literal, fmt.Sprintf("%s: entity.%s,", rule.Field, rule.Member.Name))
		case projection.ForeignKeyList:
			elem, ok := rule.Member.Type.Sequence()
			if !ok {
				continue
			}
			source := "entity." + rule.Member.Name
			if rule.Member.Type.IsPointer() {
				source = r.imports.Qualify("github.com/samber/lo") + ".FromPtr(" + source + ")"
			}
			literal = append(literal, fmt.Sprintf("%s: %s.Map(%s, func(item %s, _ int) %s {\nreturn item.%s\n}),",
				rule.Field, r.imports.Qualify("github.com/samber/lo"), source,
				r.imports.Spell(elem), r.imports.Spell(*rule.Type.Elem), rule.Relationship.TargetKey.Name))
		case projection.ForeignKey:
			key := rule.Relationship.TargetKey.Name
			if rule.Member.Type.IsPointer() {
				after = append(after, fmt.Sprintf("if entity.%s != nil {\nvm.%s = entity.%s.%s\n}", rule.Member.Name, rule.Field, rule.Member.Name, key))
			} else {
				after = append(after, fmt.Sprintf("vm.%s = entity.%s.%s", rule.Field, rule.Member.Name, key))
			}
		}
	}

	body := []string{
		"if entity == nil {\nreturn nil\n}",
		fmt.Sprintf("vm := &%s{\n%s\n}", r.view, strings.Join(literal, "\n")),
	}
	body = append(body, after...)
	body = append(body, "return vm")

	return &codemodel.Func{
		Doc:     fmt.Sprintf("%s 将 %s 映射为 %s", mapperName(r.entityName), r.entityName, r.m.Shape(typemodel.ShapeViewModel).Name()),
		Name:    mapperName(r.entityName),
		Params:  []codemodel.Param{{Name: "entity", Type: "*" + r.entity}},
		Results: []codemodel.Param{{Type: "*" + r.view}},
		Body:    body,
	}
}
