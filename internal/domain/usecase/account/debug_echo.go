//go:build !production

package account

import "github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"

func debugEcho(enabled bool, link, token, code string) *usecase.VerificationDebug {
	if !enabled {
		return nil
	}
	return &usecase.VerificationDebug{Link: link, Token: token, Code: code}
}
