//go:build production

package account

import "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"

// debugEcho is compiled out of production builds
func debugEcho(bool, string, string, string) *usecase.VerificationDebug {
	return nil
}
