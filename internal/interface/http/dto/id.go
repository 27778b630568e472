package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID 请求体中的ID，数字和字符串两种写法都接受
// 响应里的ID统一用 `json:",string"` 输出
type ID uint64

// UnmarshalJSON 解析 1、"1"；null 和 "" 视为未传
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid id %s", data)
		}
		if s == "" {
			*id = 0
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(v)
	return nil
}

// Uint64 转为领域层使用的ID
func (id ID) Uint64() uint64 {
	return uint64(id)
}
