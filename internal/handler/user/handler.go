package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/middleware"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	authService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/auth"
	userService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/user"
)

type Handler struct {
	authSvc *authService.Service
	userSvc *userService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(authSvc *authService.Service, userSvc *userService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{authSvc: authSvc, userSvc: userSvc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/user")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("", h.auth.Authenticate(), h.ListUsers)
		users.PUT("/:userId", h.auth.Authenticate(), h.UpdateUser)
		users.DELETE("/:userId", h.auth.Authenticate(), h.DeleteUser)
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	BranchID string `json:"branchId" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=OWNER MANAGER STAFF DOCTOR"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid branch ID"))
		return
	}

	profile, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password, branchID, req.Role)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    profile,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   result.Token,
		"message": "Login successful",
		"user":    result.User,
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  list.Users,
		"counts": list.Counts,
	})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid user ID"))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	profile, err := h.userSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    profile,
	})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid user ID"))
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
