package leaverequest

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leave := r.Group("/leave-requests")
	leave.Use(middleware.AuthMiddleware())
	{
		leave.POST("",
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leave.GET("/mine", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.GetMine)
		leave.GET("/department", middleware.RBACAuthorize(rbacService, "leave_request", "read_department"), handler.GetForDepartment)
		leave.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read_all"), handler.GetAll)
		leave.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.GetByID)
		leave.PATCH("/:id/decision", middleware.RBACAuthorize(rbacService, "leave_request", "decide"), handler.Decide)
		leave.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "withdraw"), handler.Withdraw)
	}
}
