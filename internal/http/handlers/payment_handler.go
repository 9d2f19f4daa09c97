package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.ErrCodeBadRequest, "некорректная сумма")
	}
	return amount, nil
}

type PaymentHandler struct {
	payments *service.PaymentService
	escrow   *service.EscrowService
}

func NewPaymentHandler(payments *service.PaymentService, escrow *service.EscrowService) *PaymentHandler {
	return &PaymentHandler{payments: payments, escrow: escrow}
}

// GetBalance GET /payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	balance, err := h.payments.GetBalance(c.Request.Context(), actor.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance.StringFixed(2)})
}

// InitiateDeposit POST /payments/deposit
func (h *PaymentHandler) InitiateDeposit(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.InitiateDepositRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	intent, err := h.payments.InitiateDeposit(c.Request.Context(), actor, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, intent)
}

// ConfirmDeposit POST /payments/deposit/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	var req dto.ConfirmDepositRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	txn, err := h.payments.ConfirmDeposit(c.Request.Context(), req.SessionID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// Withdraw POST /payments/withdraw
func (h *PaymentHandler) Withdraw(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.WithdrawRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	txn, err := h.payments.Withdraw(c.Request.Context(), actor, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// ListTransactions GET /payments/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	limit, offset := common.GetPagination(c)
	txns, err := h.payments.ListTransactions(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// ReleaseEscrow POST /payments/escrow/release
func (h *PaymentHandler) ReleaseEscrow(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.ReleaseEscrowRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	transactionID, _ := uuid.Parse(req.TransactionID)
	freelancerID, _ := uuid.Parse(req.FreelancerID)

	txn, err := h.escrow.ReleaseEscrow(c.Request.Context(), actor, transactionID, freelancerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// ListJobTransactions GET /jobs/:id/transactions
func (h *PaymentHandler) ListJobTransactions(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	txns, err := h.escrow.ListJobTransactions(c.Request.Context(), jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, txns)
}
