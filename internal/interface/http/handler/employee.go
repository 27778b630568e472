package handler

import (
	"github.com/gin-gonic/gin"

	appemployee "github.com/xiebiao/stockroom/internal/application/employee"
	"github.com/xiebiao/stockroom/internal/interface/http/dto"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	"github.com/xiebiao/stockroom/pkg/response"
)

// EmployeeHandler 员工注册、登录、登出
type EmployeeHandler struct {
	registerUseCase *appemployee.RegisterUseCase
	loginUseCase    *appemployee.LoginUseCase
	logoutUseCase   *appemployee.LogoutUseCase
	profileUseCase  *appemployee.ProfileUseCase
}

// NewEmployeeHandler 创建员工处理器
func NewEmployeeHandler(
	registerUseCase *appemployee.RegisterUseCase,
	loginUseCase *appemployee.LoginUseCase,
	logoutUseCase *appemployee.LogoutUseCase,
	profileUseCase *appemployee.ProfileUseCase,
) *EmployeeHandler {
	return &EmployeeHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		profileUseCase:  profileUseCase,
	}
}

// Register 员工注册
// @Summary      员工注册
// @Description  系统没有任何员工时可匿名注册第一个账号（自动成为管理员），之后需要管理员Token
// @Tags         员工
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=dto.EmployeeResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "邮箱或编号已存在"
// @Router       /api/v1/employees/register [post]
func (h *EmployeeHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.registerUseCase.Execute(c.Request.Context(), appemployee.RegisterRequest{
		ActorID:  middleware.GetEmployeeID(c),
		Code:     req.Code,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToEmployeeResponse(info))
}

// Login 员工登录
// @Summary      员工登录
// @Description  验证邮箱密码，返回JWT Token对
// @Tags         员工
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Failure      403 {object} response.Response "员工已停用"
// @Router       /api/v1/employees/login [post]
func (h *EmployeeHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appemployee.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		Employee:     *dto.ToEmployeeResponse(&result.Employee),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并把当前Access Token加入黑名单
// @Tags         员工
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/employees/logout [post]
func (h *EmployeeHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetEmployeeID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Me 当前登录员工
// @Summary      当前登录员工
// @Tags         员工
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.EmployeeResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/employees/me [get]
func (h *EmployeeHandler) Me(c *gin.Context) {
	info, err := h.profileUseCase.Execute(c.Request.Context(), middleware.GetEmployeeID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToEmployeeResponse(info))
}
