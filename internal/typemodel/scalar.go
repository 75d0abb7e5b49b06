package typemodel

// ScalarCategory 标量类别，决定输入控件和主键解析方式
type ScalarCategory int

const (
	CategoryInteger ScalarCategory = iota + 1
	CategoryUnsigned
	CategoryFloat
	CategoryDecimal
	CategoryBool
	CategoryChar
	CategoryString
	CategoryTime
	CategoryUUID
)

func (c ScalarCategory) String() string {
	switch c {
	case CategoryInteger:
		return "integer"
	case CategoryUnsigned:
		return "unsigned"
	case CategoryFloat:
		return "float"
	case CategoryDecimal:
		return "decimal"
	case CategoryBool:
		return "bool"
	case CategoryChar:
		return "char"
	case CategoryString:
		return "string"
	case CategoryTime:
		return "time"
	case CategoryUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// IsNumeric 是否为数值类别
func (c ScalarCategory) IsNumeric() bool {
	switch c {
	case CategoryInteger, CategoryUnsigned, CategoryFloat, CategoryDecimal:
		return true
	}
	return false
}

// ScalarInfo 标量类型信息
type ScalarInfo struct {
	Category ScalarCategory
	Nullable bool // 指针或 sql.Null* 等可空包装
	Bits     int  // 整数/浮点位宽，0 表示平台相关
	Enum     bool // 以内置标量为底层类型的具名类型
}

// scalarTable 标量白名单，key 为类型标识
var scalarTable = map[string]ScalarInfo{
	"int":     {Category: CategoryInteger},
	"int8":    {Category: CategoryInteger, Bits: 8},
	"int16":   {Category: CategoryInteger, Bits: 16},
	"int32":   {Category: CategoryInteger, Bits: 32},
	"int64":   {Category: CategoryInteger, Bits: 64},
	"uint":    {Category: CategoryUnsigned},
	"uint8":   {Category: CategoryUnsigned, Bits: 8},
	"uint16":  {Category: CategoryUnsigned, Bits: 16},
	"uint32":  {Category: CategoryUnsigned, Bits: 32},
	"uint64":  {Category: CategoryUnsigned, Bits: 64},
	"uintptr": {Category: CategoryUnsigned},
	"float32": {Category: CategoryFloat, Bits: 32},
	"float64": {Category: CategoryFloat, Bits: 64},
	"bool":    {Category: CategoryBool},
	"byte":    {Category: CategoryChar, Bits: 8},
	"rune":    {Category: CategoryChar, Bits: 32},
	"string":  {Category: CategoryString},

	"time.Time":                             {Category: CategoryTime},
	"github.com/google/uuid.UUID":           {Category: CategoryUUID},
	"github.com/shopspring/decimal.Decimal": {Category: CategoryDecimal},

	"database/sql.NullString":                   {Category: CategoryString, Nullable: true},
	"database/sql.NullBool":                     {Category: CategoryBool, Nullable: true},
	"database/sql.NullByte":                     {Category: CategoryChar, Nullable: true, Bits: 8},
	"database/sql.NullInt16":                    {Category: CategoryInteger, Nullable: true, Bits: 16},
	"database/sql.NullInt32":                    {Category: CategoryInteger, Nullable: true, Bits: 32},
	"database/sql.NullInt64":                    {Category: CategoryInteger, Nullable: true, Bits: 64},
	"database/sql.NullFloat64":                  {Category: CategoryFloat, Nullable: true, Bits: 64},
	"database/sql.NullTime":                     {Category: CategoryTime, Nullable: true},
	"gorm.io/gorm.DeletedAt":                    {Category: CategoryTime, Nullable: true},
	"github.com/google/uuid.NullUUID":           {Category: CategoryUUID, Nullable: true},
	"github.com/shopspring/decimal.NullDecimal": {Category: CategoryDecimal, Nullable: true},
}

// LookupScalar 按类型标识查询标量表，指针视为可空
func LookupScalar(ref TypeRef) (ScalarInfo, bool) {
	nullable := ref.IsPointer()
	info, ok := scalarTable[ref.Deref().Token()]
	if !ok {
		return ScalarInfo{}, false
	}
	info.Nullable = info.Nullable || nullable
	return info, true
}
