package product

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBarcodeValue 生成条码内容
// 格式：BC + 时间戳(秒) + 6位随机数，示例：BC1699248000123456
// 全局唯一性最终由数据库唯一索引保证
func GenerateBarcodeValue(now time.Time) string {
	return fmt.Sprintf("BC%d%06d", now.Unix(), rand.Intn(1000000))
}

// GenerateSerialNumber 生成序列号
// 格式：SKU-日期-批次内序号，示例：GLV-M-20241105-0001-3F9A
// 末尾4位十六进制来自批次时间的毫秒部分，同一天多个批次不冲突
func GenerateSerialNumber(sku string, now time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d-%04X", sku, now.Format("20060102"), seq, now.UnixMilli()%0x10000)
}

// NewBarcodes 为商品批量生成条码，状态为AVAILABLE
// boxQty<=0时使用商品的每箱数量
func NewBarcodes(p *Product, count, boxQty int, now time.Time) ([]*Barcode, error) {
	if count <= 0 || count > MaxBarcodeBatch {
		return nil, ErrInvalidBatchSize
	}
	if boxQty <= 0 {
		boxQty = p.BoxQty
	}

	seen := make(map[string]struct{}, count)
	barcodes := make([]*Barcode, 0, count)
	for i := 1; i <= count; i++ {
		value := GenerateBarcodeValue(now)
		for {
			if _, dup := seen[value]; !dup {
				break
			}
			value = GenerateBarcodeValue(now)
		}
		seen[value] = struct{}{}

		barcodes = append(barcodes, &Barcode{
			ProductID:    p.ID,
			Value:        value,
			SerialNumber: GenerateSerialNumber(p.SKU, now, i),
			BoxQty:       boxQty,
			Status:       BarcodeAvailable,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return barcodes, nil
}

// MaxBarcodeBatch 单批最多生成的条码数
const MaxBarcodeBatch = 500
