package database

import (
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps errors raised while managing transactions to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps a database error to a domain error. Serialization failures and
// deadlocks become ErrConcurrentUpdate, everything else a storage error.
func (m *ErrorMapper) MapError(err error, operation string) error {
	return m.classifier.MapError(operation, err, nil, nil)
}
