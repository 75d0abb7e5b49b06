package typemodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverContext(t *testing.T) {
	t.Run("唯一候选", func(t *testing.T) {
		u := snapshotOf(Student{}, AppDB{}, hiddenDB{})
		ctx, err := DiscoverContext(u, "")
		require.NoError(t, err)
		assert.Equal(t, "AppDB", ctx.Type.Name)
		assert.Equal(t, "DB", ctx.DBField)
	})

	t.Run("多个候选未指定", func(t *testing.T) {
		u := snapshotOf(AppDB{}, ReportDB{})
		_, err := DiscoverContext(u, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAmbiguousContext)
		assert.True(t, IsContextError(err))
		assert.Contains(t, err.Error(), "AppDB")
		assert.Contains(t, err.Error(), "ReportDB")
	})

	t.Run("多个候选按名称选择", func(t *testing.T) {
		u := snapshotOf(AppDB{}, ReportDB{})
		ctx, err := DiscoverContext(u, "ReportDB")
		require.NoError(t, err)
		assert.Equal(t, "ReportDB", ctx.Type.Name)
		assert.Equal(t, "Conn", ctx.DBField)
	})

	t.Run("名称不存在", func(t *testing.T) {
		u := snapshotOf(AppDB{})
		_, err := DiscoverContext(u, "MissingDB")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoContext)
		assert.Contains(t, err.Error(), "MissingDB")
	})

	t.Run("没有候选", func(t *testing.T) {
		u := snapshotOf(Student{}, hiddenDB{})
		_, err := DiscoverContext(u, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoContext)
	})
}
