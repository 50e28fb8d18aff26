package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware recovers from panics and renders errors that a
// handler attached to the context without writing a response
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      fmt.Sprint(r),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetString(RequestIDKey),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    errs.ErrorCode(errs.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(errs.HTTPStatus(err), dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: errs.PublicMessage(err, "Internal server error"),
		})
	}
}
