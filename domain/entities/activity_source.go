package entities

// ActivitySource tags the origin of a points balance change
type ActivitySource string

// All activity sources supported by the system
const (
	// Earning sources
	SourceWatchAd    ActivitySource = "watch_ad"
	SourceShortLink  ActivitySource = "short_link"
	SourceDailyBonus ActivitySource = "daily_bonus"

	// Spending sources
	SourceVPSDebit ActivitySource = "vps_debit"

	// System sources
	SourceAdminGrant ActivitySource = "admin_grant"
)

// Points awarded per completed task
const (
	WatchAdReward    int64 = 5
	ShortLinkReward  int64 = 2
	DailyBonusReward int64 = 10
)

// IsEarning returns true if the source credits points
func (s ActivitySource) IsEarning() bool {
	return s == SourceWatchAd || s == SourceShortLink || s == SourceDailyBonus || s == SourceAdminGrant
}

// IsDebit returns true if the source spends points
func (s ActivitySource) IsDebit() bool {
	return s == SourceVPSDebit
}

// IsTask returns true if the source is a user-completable engagement task
func (s ActivitySource) IsTask() bool {
	return s == SourceWatchAd || s == SourceShortLink
}

// TaskReward returns the fixed reward for a task source, zero for non-tasks
func (s ActivitySource) TaskReward() int64 {
	switch s {
	case SourceWatchAd:
		return WatchAdReward
	case SourceShortLink:
		return ShortLinkReward
	default:
		return 0
	}
}

// String returns the string representation of the activity source
func (s ActivitySource) String() string {
	return string(s)
}
