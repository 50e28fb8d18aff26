package handler

import (
	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
)

// respondError writes the stable status and message for err. Server side
// failures are logged in full and answered with fallback.
func respondError(c *gin.Context, logger coreport.Logger, err error, fallback string) {
	_ = c.Error(err)

	status := errs.HTTPStatus(err)
	if !errs.IsClientError(err) {
		logger.Error(fallback, map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: errs.PublicMessage(err, fallback),
	})
}
