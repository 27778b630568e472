package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isDuplicateOn 唯一索引冲突且冲突的是指定索引
func isDuplicateOn(err error, index string) bool {
	return isDuplicateError(err) && strings.Contains(err.Error(), index)
}

// normalizePage 分页参数兜底
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func offsetOf(page, pageSize int) int {
	return (page - 1) * pageSize
}
