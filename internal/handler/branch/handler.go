package branch

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	branchService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/branch"
)

type Handler struct {
	service *branchService.Service
}

func NewHandler(service *branchService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	branches := r.Group("/branch")
	{
		branches.POST("", h.CreateBranch)
		branches.GET("", h.ListBranches)
		branches.PUT("/:branchId", h.UpdateBranch)
		branches.DELETE("/:branchId", h.DeleteBranch)
	}
}

type createBranchRequest struct {
	Name     string `json:"branchName" binding:"required"`
	Location string `json:"branchLocation" binding:"required"`
}

func (h *Handler) CreateBranch(c *gin.Context) {
	var req createBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	branch, err := h.service.Create(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Branch created successfully",
		"branch":  branch,
	})
}

func (h *Handler) ListBranches(c *gin.Context) {
	branches, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

func (h *Handler) UpdateBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("branchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid branch ID"))
		return
	}

	var req model.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	branch, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Branch updated successfully",
		"branch":  branch,
	})
}

func (h *Handler) DeleteBranch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("branchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid branch ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted successfully"})
}
