package inventory

import (
	"fmt"
	"time"
)

// SplitReturn 计算归还时的实际用量和归还入库数量
// actualUsed = clamp(usedQty, 0, boxQty)
// returnToInventory = boxQty - actualUsed
func SplitReturn(usedQty, boxQty int) (actualUsed, returnToInventory int) {
	if boxQty < 0 {
		boxQty = 0
	}
	actualUsed = usedQty
	if actualUsed < 0 {
		actualUsed = 0
	}
	if actualUsed > boxQty {
		actualUsed = boxQty
	}
	return actualUsed, boxQty - actualUsed
}

// RemainingWait 距离允许归还还需等待的时间，<=0表示已可归还
func RemainingWait(checkedOutAt, now time.Time, minWait time.Duration) time.Duration {
	return minWait - now.Sub(checkedOutAt)
}

// GuardKey 防重锁key：{action}:{employeeId}:{barcodeValue}
// 按动作区分，借出和归还同一条码互不阻塞
func GuardKey(action TransactionType, employeeID uint64, barcodeValue string) string {
	return fmt.Sprintf("%s:%d:%s", action, employeeID, barcodeValue)
}

// PostReturnKey 归还后冷却期key，冷却期内该条码任何动作都会被拒绝
func PostReturnKey(barcodeValue string) string {
	return "post_return:" + barcodeValue
}
