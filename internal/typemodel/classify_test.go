package typemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyScenarioB(t *testing.T) {
	u := snapshotOf(Category{}, CategoryCreationDto{})
	d, err := Describe(u, mustLookup(u, "Category"))
	require.NoError(t, err)

	rels, err := Classify(u, d, mustLookup(u, "CategoryCreationDto"))
	require.NoError(t, err)
	require.Len(t, rels, 2)

	children, ok := RelationshipOf(rels, "ChildCategories")
	require.True(t, ok)
	assert.True(t, children.Exposed)
	assert.True(t, children.IsCollection())
	assert.Equal(t, "ChildCategoriesIds", children.FieldName)
	assert.Equal(t, "int", children.TargetKey.Type.Token())
	assert.False(t, children.Synthesized)

	products, _ := RelationshipOf(rels, "Products")
	assert.True(t, products.Exposed)
	assert.Equal(t, "ProductsIds", products.FieldName)
	assert.Equal(t, "int64", products.TargetKey.Type.Token())
	assert.Equal(t, "Product", products.Target.Name)
}

func TestClassifyWithoutCompanion(t *testing.T) {
	u := snapshotOf(Category{})
	d, err := Describe(u, mustLookup(u, "Category"))
	require.NoError(t, err)

	for _, companion := range []*TypeInfo{nil, d.Info} {
		rels, err := Classify(u, d, companion)
		require.NoError(t, err)
		for _, r := range rels {
			assert.False(t, r.Exposed, r.Member.Name)
			assert.False(t, r.Synthesized, r.Member.Name)
		}
	}
}

func TestClassifySynthesized(t *testing.T) {
	u := snapshotOf(Post{}, PostCreationDto{}, Comment{}, CommentCreationDto{})

	post, err := Describe(u, mustLookup(u, "Post"))
	require.NoError(t, err)
	rels, err := Classify(u, post, mustLookup(u, "PostCreationDto"))
	require.NoError(t, err)
	author, ok := RelationshipOf(rels, "Author")
	require.True(t, ok)
	assert.True(t, author.Exposed)
	assert.True(t, author.Synthesized)
	assert.Equal(t, "github.com/google/uuid.UUID", author.TargetKey.Type.Token())

	comment, err := Describe(u, mustLookup(u, "Comment"))
	require.NoError(t, err)
	rels, err = Classify(u, comment, mustLookup(u, "CommentCreationDto"))
	require.NoError(t, err)
	parent, _ := RelationshipOf(rels, "Post")
	assert.True(t, parent.Exposed)
	assert.False(t, parent.Synthesized)
}

func TestClassifyExposedWithoutKey(t *testing.T) {
	u := snapshotOf(Ledger{}, LedgerCreationDto{})
	d, err := Describe(u, mustLookup(u, "Ledger"))
	require.NoError(t, err)

	_, err = Classify(u, d, mustLookup(u, "LedgerCreationDto"))
	require.Error(t, err)
	assert.True(t, IsMetadataError(err))
	assert.Contains(t, err.Error(), "AccountId")
}

type Brand struct {
	ID   int64
	Name string
}

type Gadget struct {
	ID      int64
	Title   string
	Brand   *Brand
	BrandID int64
}

type GadgetCreationDto struct {
	Title   string
	BrandID int64
}

func TestClassifyUpperIDForeignKey(t *testing.T) {
	u := snapshotOf(Gadget{}, GadgetCreationDto{})
	d, err := Describe(u, mustLookup(u, "Gadget"))
	require.NoError(t, err)

	fk, ok := d.IndependentForeignKey("Brand")
	require.True(t, ok)
	assert.Equal(t, "BrandID", fk.Name)
	assert.Equal(t, "BrandID", SingleForeignKeyName(d, "Brand"))
	assert.Equal(t, "OwnerId", SingleForeignKeyName(d, "Owner"))

	rels, err := Classify(u, d, mustLookup(u, "GadgetCreationDto"))
	require.NoError(t, err)
	brand, ok := RelationshipOf(rels, "Brand")
	require.True(t, ok)
	assert.Equal(t, "BrandID", brand.FieldName)
	assert.True(t, brand.Exposed)
	assert.False(t, brand.Synthesized)
}
