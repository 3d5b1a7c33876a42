package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

type entryStore struct {
	*MYSQLStore
}

// Entries returns an object implementing the Entries interface
func (ms *MYSQLStore) Entries() dependency.Entries {
	return &entryStore{
		MYSQLStore: ms,
	}
}

// Join enrolls email into the waitlist addressed by slug. It reads the
// current maximum position, inserts the entry at position+1 and credits the
// referrer, all inside one serializable transaction, so positions within a
// waitlist stay contiguous under concurrent joins. The (waitlist_id, position)
// unique index is the backstop.
func (ms *MYSQLStore) Join(ctx context.Context, slug, email, referralCode string, referredBy *int) (*entity.Entry, *entity.Waitlist, error) {
	var entry *entity.Entry
	var wl *entity.Waitlist

	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		w, err := rep.Waitlists().GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		next := 1
		last, err := QueryNamedOne[entity.Entry](ctx, rep.DB(),
			`SELECT * FROM waitlist_entry WHERE waitlist_id = :waitlistId ORDER BY position DESC LIMIT 1`,
			map[string]any{
				"waitlistId": w.ID,
			})
		if err == nil {
			next = last.Position + 1
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get last position: %w", err)
		}

		// Credit the referrer first. A missing referrer is a silent no-op
		// and the new entry is stored without a referred_by edge.
		var refBy *int64
		if referredBy != nil {
			affected, err := ExecNamedRowsAffected(ctx, rep.DB(),
				`UPDATE waitlist_entry SET referral_count = referral_count + 1 WHERE id = :id`,
				map[string]any{
					"id": *referredBy,
				})
			if err != nil {
				return fmt.Errorf("failed to credit referrer: %w", err)
			}
			if affected > 0 {
				v := int64(*referredBy)
				refBy = &v
			}
		}

		id, err := ExecNamedLastId(ctx, rep.DB(), `
		INSERT INTO waitlist_entry
			(waitlist_id, email, position, referral_code, referred_by)
		VALUES
			(:waitlistId, :email, :position, :referralCode, :referredBy)`,
			map[string]any{
				"waitlistId":   w.ID,
				"email":        email,
				"position":     next,
				"referralCode": referralCode,
				"referredBy":   refBy,
			})
		if err != nil {
			if rep.IsErrUniqueViolation(err) {
				return fmt.Errorf("referral code or position collision: %w", gerr.ErrConflict)
			}
			return fmt.Errorf("failed to insert entry: %w", err)
		}

		entry = &entity.Entry{
			ID:           id,
			WaitlistID:   w.ID,
			Email:        email,
			Position:     next,
			ReferralCode: referralCode,
			ReferredBy:   refBy,
			JoinedAt:     rep.Now(),
		}
		wl = w
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return entry, wl, nil
}

// ListByWaitlist returns all entries of a waitlist in join order.
func (ms *MYSQLStore) ListByWaitlist(ctx context.Context, waitlistID int) ([]entity.Entry, error) {
	query := `SELECT * FROM waitlist_entry WHERE waitlist_id = :waitlistId ORDER BY position`
	entries, err := QueryListNamed[entity.Entry](ctx, ms.DB(), query, map[string]any{
		"waitlistId": waitlistID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Leaderboard returns the waitlist's entries ranked by referral count.
func (ms *MYSQLStore) Leaderboard(ctx context.Context, waitlistID, limit int) ([]entity.Entry, error) {
	query := `
	SELECT * FROM waitlist_entry
	WHERE waitlist_id = :waitlistId
	ORDER BY referral_count DESC, position ASC
	LIMIT :limit`
	entries, err := QueryListNamed[entity.Entry](ctx, ms.DB(), query, map[string]any{
		"waitlistId": waitlistID,
		"limit":      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

// GetAnalytics aggregates entry and referral totals plus per-day join counts.
func (ms *MYSQLStore) GetAnalytics(ctx context.Context, waitlistID int) (*entity.Analytics, error) {
	params := map[string]any{
		"waitlistId": waitlistID,
	}

	total, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM waitlist_entry WHERE waitlist_id = :waitlistId`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	referrals, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COALESCE(SUM(referral_count), 0) FROM waitlist_entry WHERE waitlist_id = :waitlistId`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to sum referrals: %w", err)
	}

	days, err := QueryListNamed[entity.DailyJoin](ctx, ms.DB(), `
	SELECT DATE_FORMAT(joined_at, '%Y-%m-%d') AS day, COUNT(*) AS cnt
	FROM waitlist_entry
	WHERE waitlist_id = :waitlistId
	GROUP BY day
	ORDER BY day`, params)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily joins: %w", err)
	}

	daily := make(map[string]int, len(days))
	for _, d := range days {
		daily[d.Day] = d.Count
	}

	return &entity.Analytics{
		TotalEntries:   total,
		TotalReferrals: referrals,
		DailyJoins:     daily,
	}, nil
}
