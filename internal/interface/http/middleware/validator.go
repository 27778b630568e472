package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// RegisterValidators 向gin的validator注册自定义校验tag
//
//	txtype: 库存交易类型 CHECKOUT/RETURN/ADJUST（不区分大小写）
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin validator引擎不是validator/v10")
	}
	return v.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
		_, err := inventory.ParseTransactionType(fl.Field().String())
		return err == nil
	})
}

// BindError 把ShouldBind的错误转换为40901参数错误
// 校验失败时列出 字段:规则，JSON格式错误时原样带上
func BindError(err error) *apperrors.AppError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
		return apperrors.New(apperrors.ErrCodeBindError, "参数错误: "+strings.Join(fields, ", "))
	}
	return apperrors.New(apperrors.ErrCodeBindError, "参数错误: "+err.Error())
}
