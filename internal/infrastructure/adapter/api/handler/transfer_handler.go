package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/middleware"
)

const transferFallback = "Server error during funds transfer. Transaction aborted."

// TransferHandler handles funds transfers between accounts
type TransferHandler struct {
	transfers usecase.TransferUseCase
	logger    coreport.Logger
}

// NewTransferHandler creates a new transfer handler instance
func NewTransferHandler(transfers usecase.TransferUseCase, logger coreport.Logger) *TransferHandler {
	return &TransferHandler{transfers: transfers, logger: logger}
}

// Transfer handles POST /transactions for the authenticated sender
func (h *TransferHandler) Transfer(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, h.logger, errs.ErrSessionInvalid, transferFallback)
		return
	}

	req, err := bindAndValidate[dto.TransferRequest](c, errs.ErrMissingTransferFields)
	if err != nil {
		respondError(c, h.logger, err, transferFallback)
		return
	}

	result, err := h.transfers.TransferFunds(c.Request.Context(), principal.AccountID, usecase.TransferRequest{
		RecipientEmail: req.RecipientEmail,
		Amount:         string(req.Amount),
	})
	if err != nil {
		respondError(c, h.logger, err, transferFallback)
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		Message:       result.Message,
		NewBalance:    result.NewBalance,
		TransactionID: result.TransactionID,
	})
}
