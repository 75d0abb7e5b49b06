package viewgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateName(t *testing.T) {
	assert.Equal(t, "categories/index.html", TemplateName("categories", PageIndex))
	assert.Equal(t, "product_categories/details.html", TemplateName("product_categories", PageDetails))
	assert.Equal(t, "create.html", PageCreate.FileName())
}
