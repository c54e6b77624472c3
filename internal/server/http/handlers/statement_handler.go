package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/finapi/internal/domain/model"
	"github.com/polkiloo/finapi/internal/server/http/dto"
)

// StatementHandler manages deposits, withdrawals and balance endpoints.
type StatementHandler struct {
	facade StatementFacade
}

// NewStatementHandler constructs StatementHandler.
func NewStatementHandler(facade StatementFacade) *StatementHandler {
	return &StatementHandler{facade: facade}
}

// Balance handles GET /api/v1/statements/balance.
func (h *StatementHandler) Balance(c *gin.Context) {
	balance, err := h.facade.Balance(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := dto.BalanceResponse{
		Statement: make([]dto.StatementResponse, 0, len(balance.Statements)),
		Balance:   balance.Balance,
	}
	for _, st := range balance.Statements {
		resp.Statement = append(resp.Statement, toStatementResponse(st))
	}
	c.JSON(http.StatusOK, resp)
}

// Deposit handles POST /api/v1/statements/deposit.
func (h *StatementHandler) Deposit(c *gin.Context) {
	h.create(c, model.OperationTypeDeposit)
}

// Withdraw handles POST /api/v1/statements/withdraw.
func (h *StatementHandler) Withdraw(c *gin.Context) {
	h.create(c, model.OperationTypeWithdraw)
}

func (h *StatementHandler) create(c *gin.Context, opType model.OperationType) {
	var req dto.StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	st, err := h.facade.CreateStatement(c.Request.Context(), CurrentUserID(c), opType, req.Amount, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toStatementResponse(*st))
}

// Get handles GET /api/v1/statements/:statement_id.
func (h *StatementHandler) Get(c *gin.Context) {
	st, err := h.facade.StatementOperation(c.Request.Context(), CurrentUserID(c), c.Param("statement_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatementResponse(*st))
}
