package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nathanyu/payment-transfer/internal/domain"
)

// TransferService is the part of the core the HTTP layer invokes.
type TransferService interface {
	Execute(ctx context.Context, amount domain.Money, payerID, payeeID int64) (domain.TransferResult, error)
	CreateAccount(ctx context.Context, acc domain.Account) (domain.Account, error)
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
}

// Handler contains all HTTP handlers
type Handler struct {
	service TransferService
}

// NewHandler creates a new handler
func NewHandler(service TransferService) *Handler {
	return &Handler{service: service}
}

func successResponse(message string, data any) gin.H {
	resp := gin.H{"status": "success", "message": message}
	if data != nil {
		resp["data"] = data
	}
	return resp
}

func errorResponse(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// TransferRequest is the request body for the transfer endpoint. Value is
// decoded through Money, so malformed or >2dp numbers fail before the core
// ever sees them.
type TransferRequest struct {
	Value domain.Money `json:"value"`
	Payer int64        `json:"payer"`
	Payee int64        `json:"payee"`
}

// Transfer handles POST /v1/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid transfer value"))
		return
	}

	if !req.Value.Positive() {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid transfer value"))
		return
	}
	if req.Payer <= 0 || req.Payee <= 0 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid payer or payee id"))
		return
	}

	result, err := h.service.Execute(c.Request.Context(), req.Value, req.Payer, req.Payee)
	if err != nil {
		status, message := transferErrorStatus(err)
		c.JSON(status, errorResponse(message))
		return
	}

	c.JSON(http.StatusCreated, successResponse("transfer completed", result))
}

// transferErrorStatus maps domain failures to HTTP statuses. Authorization
// denial maps to 503: the upstream oracle, not the request, is the problem.
func transferErrorStatus(err error) (int, string) {
	var de *domain.Error
	message := "failed to process transfer"
	if errors.As(err, &de) && de.Code != domain.CodeTransferFailed {
		message = de.Message
	}

	if errors.Is(err, domain.ErrTransferDenied) {
		return http.StatusServiceUnavailable, message
	}

	switch domain.CodeOf(err) {
	case domain.CodeUserNotFound,
		domain.CodeInsufficientBalance,
		domain.CodeUnauthorizedTransfer,
		domain.CodeInvalidTransaction:
		return http.StatusUnprocessableEntity, message
	case domain.CodeExternalServiceError:
		return http.StatusServiceUnavailable, message
	default:
		return http.StatusInternalServerError, message
	}
}

// CreateAccountRequest is the request body for account creation
type CreateAccountRequest struct {
	FullName string             `json:"full_name"`
	Email    string             `json:"email"`
	Document string             `json:"document"`
	Kind     domain.AccountKind `json:"kind"`
	Balance  domain.Money       `json:"balance"`
}

// CreateAccount handles POST /v1/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid request body"))
		return
	}

	if req.FullName == "" {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("full_name is required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid email"))
		return
	}
	if len(req.Document) != 11 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid document"))
		return
	}
	if !domain.ValidKind(req.Kind) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid account kind"))
		return
	}

	acc, err := h.service.CreateAccount(c.Request.Context(), domain.Account{
		FullName: req.FullName,
		Email:    req.Email,
		Document: req.Document,
		Kind:     req.Kind,
		Balance:  req.Balance,
	})
	if err != nil {
		if domain.CodeOf(err) == domain.CodeInvalidTransaction {
			var de *domain.Error
			message := "invalid account"
			if errors.As(err, &de) {
				message = de.Message
			}
			c.JSON(http.StatusUnprocessableEntity, errorResponse(message))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("failed to create account"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("account created", acc))
}

// BalanceResponse is the response body for the balance endpoint
type BalanceResponse struct {
	AccountID int64        `json:"account_id"`
	Balance   domain.Money `json:"balance"`
}

// GetBalance handles GET /v1/accounts/:id/balance
func (h *Handler) GetBalance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse("invalid account id"))
		return
	}

	acc, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, errorResponse("account not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("failed to load account"))
		return
	}

	c.JSON(http.StatusOK, successResponse("", BalanceResponse{
		AccountID: acc.ID,
		Balance:   acc.Balance,
	}))
}

// HealthResponse is the response for health check endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/transfer", h.Transfer)
		v1.POST("/accounts", h.CreateAccount)
		v1.GET("/accounts/:id/balance", h.GetBalance)
	}
}
