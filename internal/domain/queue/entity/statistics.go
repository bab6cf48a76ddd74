package entity

// QueueStatistics represents aggregated posting statistics.
type QueueStatistics struct {
	TotalItems      int               `json:"total_items"`      // content items submitted
	TotalAccounts   int               `json:"total_accounts"`   // enabled accounts
	PossiblePosts   int               `json:"possible_posts"`   // items x accounts
	CompletedPosts  int               `json:"completed_posts"`  // entries posted
	PendingPosts    int               `json:"pending_posts"`    // entries still pending
	ExhaustedPosts  int               `json:"exhausted_posts"`  // entries that hit the retry ceiling
	DueNextHour     int               `json:"due_next_hour"`    // pending entries due within an hour
	AccountsByPlatform map[Platform]int `json:"accounts_by_platform"`
}

// ItemProgress represents per-item completion across accounts, the
// queue_status view shape.
type ItemProgress struct {
	ContentID     string `json:"content_id"`
	Title         string `json:"title"`
	TotalEntries  int    `json:"total_entries"`
	PostedEntries int    `json:"posted_entries"`
	Complete      bool   `json:"complete"`
}
