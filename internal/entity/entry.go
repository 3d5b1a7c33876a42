package entity

import (
	"time"
)

// Entry is one person's enrollment record in a waitlist. Position is the
// 1-based rank in join order within the waitlist.
type Entry struct {
	ID            int       `db:"id" json:"id"`
	WaitlistID    int       `db:"waitlist_id" json:"waitlist_id"`
	Email         string    `db:"email" json:"email"`
	Position      int       `db:"position" json:"position"`
	ReferralCode  string    `db:"referral_code" json:"referral_code"`
	ReferralCount int       `db:"referral_count" json:"referral_count"`
	ReferredBy    *int64    `db:"referred_by" json:"referred_by"`
	JoinedAt      time.Time `db:"joined_at" json:"joined_at"`
}

type EntryInsert struct {
	Email      string `json:"email" valid:"required,email"`
	ReferredBy *int   `json:"referred_by"`
}

// JoinResult is what a joiner gets back: their place in line and the code
// others can present as referred_by to credit them.
type JoinResult struct {
	Position     int    `json:"position"`
	ReferralCode string `json:"referral_code"`
}

// Analytics aggregates the entries of one waitlist.
type Analytics struct {
	TotalEntries   int            `json:"total_entries"`
	TotalReferrals int            `json:"total_referrals"`
	DailyJoins     map[string]int `json:"daily_joins"`
}

// DailyJoin is one row of the per-day join aggregation.
type DailyJoin struct {
	Day   string `db:"day"`
	Count int    `db:"cnt"`
}
