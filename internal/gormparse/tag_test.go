package gormparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	tag := ParseTag(`json:"id" gorm:"column:user_id; primaryKey;autoIncrement"`)
	assert.Equal(t, "user_id", tag.Get("column"))
	assert.True(t, tag.Has("primarykey"))
	assert.True(t, tag.Has("AUTOINCREMENT"))
	assert.False(t, tag.Has("unique"))

	assert.Empty(t, ParseTag(`json:"id"`))
	assert.Empty(t, ParseTag(""))
}

func TestIsPrimaryKey(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{`gorm:"primaryKey"`, true},
		{`gorm:"primary_key"`, true},
		{`gorm:"PRIMARYKEY;column:uid"`, true},
		{`gorm:"column:primaryKey_col"`, false},
		{`json:"primaryKey"`, false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPrimaryKey(tt.tag), tt.tag)
	}
}

// TestColumnName 测试列名提取函数
func TestColumnName(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		fieldTag  string
		expected  string
	}{
		{"无标签", "UserName", "", "user_name"},
		{"有column标签", "UserName", `gorm:"column:custom_name"`, "custom_name"},
		{"有其他标签但无column", "CreatedAt", `gorm:"type:datetime"`, "created_at"},
		{"多个标签包含column", "UpdatedAt", `gorm:"column:updated_time;type:datetime"`, "updated_time"},
		{"ID字段", "ID", "", "id"},
		{"Id字段", "Id", "", "id"},
		{"外键字段", "ParentCategoryId", "", "parent_category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColumnName(tt.fieldName, tt.fieldTag))
		})
	}
}

func TestIsIgnored(t *testing.T) {
	assert.True(t, IsIgnored(`gorm:"-"`))
	assert.True(t, IsIgnored(`gorm:"-:all"`))
	assert.False(t, IsIgnored(`gorm:"column:x"`))
	assert.False(t, IsIgnored(`json:"-"`))
}
