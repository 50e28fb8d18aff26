package handler

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if amount, ok := field.Interface().(dto.Amount); ok {
			return string(amount)
		}
		return nil
	}, dto.Amount(""))

	// money accepts positive amounts with at most two decimal places
	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseAmount(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// bindAndValidate decodes the JSON body into T and validates it. An empty body
// decodes to the zero value so that missing fields are reported as such.
// A failed required rule yields missing, a failed money rule ErrInvalidAmount.
func bindAndValidate[T any](c *gin.Context, missing error) (*T, error) {
	var input T
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedRequest, err)
	}

	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("%w: %v", errs.ErrMalformedRequest, err)
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return nil, missing
			}
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "money" {
				return nil, errs.ErrInvalidAmount
			}
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedRequest, fieldErrs)
	}
	return &input, nil
}
