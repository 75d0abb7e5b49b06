package typemodel

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Student struct {
	Id   int
	Name string
}

type Category struct {
	Id               int
	Name             string
	ParentCategoryId *int
	ChildCategories  []Category `gorm:"foreignKey:ParentCategoryId"`
	Products         []Product  `gorm:"many2many:category_products"`
}

type CategoryCreationDto struct {
	Name               string
	ParentCategoryId   *int
	ChildCategoriesIds []int
	ProductsIds        []int64
}

type Product struct {
	Id    int64
	Title string
	Price decimal.Decimal
}

type Order struct {
	Id       int
	Total    decimal.Decimal
	PlacedAt time.Time
}

type OrderViewModel struct {
	Id    int
	Total decimal.Decimal
}

type Orderviewmodel struct {
	Id int
}

type Author struct {
	ID   uuid.UUID
	Name string
}

type Post struct {
	Id     int
	Title  string
	Author *Author
}

type PostCreationDto struct {
	Title    string
	AuthorId uuid.UUID
}

type Comment struct {
	Id     int
	Body   string
	Post   *Post
	PostId int
}

type CommentCreationDto struct {
	Body   string
	PostId int
}

type BookStatus int

type Book struct {
	gorm.Model
	Title     string
	Status    BookStatus
	Tags      []string
	Internal  string `gorm:"-"`
	Scratch   string `crud:"-"`
	Publisher Publisher
	secret    string
}

type Publisher struct {
	Code string `gorm:"primaryKey"`
	Name string
}

type LowerKey struct {
	id   int
	Name string
}

type UpperKey struct {
	ID   int
	Name string
}

type TaggedKey struct {
	Id   int
	Code string `crud:"key"`
}

type Keyless struct {
	Name string
}

type Ledger struct {
	Id      int
	Account Account
}

type Account struct {
	Number string
}

type LedgerCreationDto struct {
	AccountId string
}

type AppDB struct {
	*gorm.DB
}

type ReportDB struct {
	Conn *gorm.DB
}

type hiddenDB struct {
	db *gorm.DB
}

func snapshotOf(values ...any) *Snapshot {
	types := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		types = append(types, reflect.TypeOf(v))
	}
	return NewSnapshot(FromReflect(types...)...)
}

func mustLookup(u Universe, name string) *TypeInfo {
	list := u.ByName(name)
	if len(list) == 0 {
		panic("type not found: " + name)
	}
	return list[0]
}
