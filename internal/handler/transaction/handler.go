package transaction

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/handler"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/middleware"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	transactionService "github.com/dteti-sys-rsch/wafi-dental-care/internal/service/transaction"
)

type Handler struct {
	service *transactionService.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *transactionService.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	transactions := r.Group("/transaction", h.auth.Authenticate())
	{
		transactions.GET("", h.ListTransactions)
		transactions.GET("/branch/:branchId", h.ListByBranch)
		transactions.POST("/create", h.CreateTransaction)
	}
}

type createTransactionRequest struct {
	Date          string `json:"date" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	PaymentMethod string `json:"payment" binding:"required,oneof=CASH CARD QRIS"`
	PatientID     string `json:"patientId" binding:"required"`
	DoctorID      string `json:"doctorId" binding:"required"`
	BranchID      string `json:"branchId" binding:"required"`
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid transaction date"))
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid doctor, patient, or branch ID"))
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid doctor, patient, or branch ID"))
		return
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid doctor, patient, or branch ID"))
		return
	}

	txn, err := h.service.Create(c.Request.Context(), &model.Transaction{
		Date:          date,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PatientID:     patientID,
		DoctorID:      doctorID,
		BranchID:      branchID,
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Transaction created successfully",
		"transaction": txn,
	})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	transactions, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (h *Handler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid branch ID"))
		return
	}

	transactions, err := h.service.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(model.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
