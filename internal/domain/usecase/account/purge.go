package account

import "context"

// PurgeExpiredChallenges deletes verification challenges older than the
// verification TTL and returns how many were removed
func (u *AccountUseCase) PurgeExpiredChallenges(ctx context.Context) (int64, error) {
	cutoff := u.timeProvider.Now().Add(-u.cfg.VerificationTTL)

	removed, err := u.uow.GetVerificationRepository(ctx).PurgeExpired(ctx, cutoff)
	if err != nil {
		u.logger.Warn("Failed to purge expired verification challenges", map[string]any{"error": err.Error()})
		return 0, err
	}
	if removed > 0 {
		u.logger.Debug("Purged expired verification challenges", map[string]any{"removed": removed})
	}
	return removed, nil
}
