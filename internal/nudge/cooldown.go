package nudge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Teamgrid/internal/db"
)

// ClearCooldowns deletes the sent rows of userID from both audit tables so
// the player can be nudged again right away. Blocked and failed rows stay.
func (s *Service) ClearCooldowns(ctx context.Context, userID int64) (int64, error) {
	var removed int64
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		profile, err := tx.Queries.DeleteSentPlayerNudgesByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("clear profile nudges: %w", err)
		}
		match, err := tx.Queries.DeleteSentMatchAvailabilityNudgesByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("clear match nudges: %w", err)
		}
		removed = profile + match
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Ctx(ctx).Info().Int64("user_id", userID).Int64("removed", removed).Msg("Nudge cooldowns cleared")
	return removed, nil
}
