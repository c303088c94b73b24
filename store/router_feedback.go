package store

// RouterFeedback represents a single feedback event for a routing decision.
type RouterFeedback struct {
	ID            int64  `json:"id"`
	UID           string `json:"uid"`
	DecisionID    string `json:"decision_id"`
	SelectedAgent string `json:"selected_agent"`
	CorrectAgent  string `json:"correct_agent"`
	FeedbackType  string `json:"feedback_type"` // positive, rephrase, switch
	CreatedTs     int64  `json:"created_ts"`
}

// FindRouterFeedback specifies conditions for finding router feedback.
type FindRouterFeedback struct {
	DecisionID   *string
	FeedbackType *string
	Agent        *string
	StartTs      *int64
	EndTs        *int64
	Limit        int
}

// RouterStats represents routing accuracy statistics aggregated from feedback.
type RouterStats struct {
	TotalFeedback int64            `json:"total_feedback"`
	Positive      int64            `json:"positive"`
	Rephrase      int64            `json:"rephrase"`
	Switch        int64            `json:"switch"`
	ByAgent       map[string]int64 `json:"by_agent"`
}
