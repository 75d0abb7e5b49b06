package crud

import (
	"fmt"
	"strings"
)

// DecimalKey 校验十进制整数形式的路径参数并去掉前导零
// 只接受可选的 +/- 加数字，0x、0o、0b 等进制前缀和下划线都会被拒绝
func DecimalKey(raw string) (string, error) {
	sign, digits := "", raw
	switch {
	case strings.HasPrefix(digits, "-"):
		sign, digits = "-", digits[1:]
	case strings.HasPrefix(digits, "+"):
		digits = digits[1:]
	}
	if digits == "" {
		return "", fmt.Errorf("invalid key %q: not a decimal integer", raw)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid key %q: not a decimal integer", raw)
		}
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0", nil
	}
	return sign + digits, nil
}
