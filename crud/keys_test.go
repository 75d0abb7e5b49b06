package crud

import (
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"10", "10"},
		{"010", "10"},
		{"0", "0"},
		{"000", "0"},
		{"-007", "-7"},
		{"+42", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := DecimalKey(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecimalKeyRejects(t *testing.T) {
	for _, raw := range []string{"", "-", "0x10", "0o10", "0b1", "1_000", "1e3", " 1", "12a"} {
		_, err := DecimalKey(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

// 规范化后的结果交给 cast 时按十进制读取
func TestDecimalKeyWithCast(t *testing.T) {
	digits, err := DecimalKey("010")
	require.NoError(t, err)
	v, err := cast.ToInt64E(digits)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	_, err = DecimalKey("0x10")
	assert.Error(t, err)
}
