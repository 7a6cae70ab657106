package notification

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("/mine", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.ListMine)
		notifications.GET("/unseen/count", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.UnseenCount)
		notifications.PATCH("/:id/seen", middleware.RBACAuthorize(rbacService, "notification", "mark_seen"), handler.MarkSeen)
		notifications.DELETE("/:id", middleware.RBACAuthorize(rbacService, "notification", "delete"), handler.Delete)
	}
}
