package models

// DatePostedFilter restricts how recent a job posting may be. The search API
// only accepts this closed set of values.
type DatePostedFilter string

const (
	PostedToday     DatePostedFilter = "today"
	PostedThreeDays DatePostedFilter = "3days"
	PostedWeek      DatePostedFilter = "week"
	PostedMonth     DatePostedFilter = "month"
	PostedYear      DatePostedFilter = "year"
)

// ValidDatePosted reports whether the filter is one of the accepted values.
func ValidDatePosted(f DatePostedFilter) bool {
	switch f {
	case PostedToday, PostedThreeDays, PostedWeek, PostedMonth, PostedYear:
		return true
	}
	return false
}

// JobSearchQuery describes one request to the job search API. Location is
// appended into the free-text query rather than sent as a structured filter.
type JobSearchQuery struct {
	Query      string
	NumPages   int
	DatePosted DatePostedFilter
	JobType    string
	Location   string
}

// JobListing is one search result. It is formatted for the user right away and
// never persisted.
type JobListing struct {
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city,omitempty"`
	Country     string `json:"job_country,omitempty"`
	ApplyLink   string `json:"job_apply_link"`
	Description string `json:"job_description,omitempty"`
	PostedAt    int64  `json:"job_posted_at_timestamp,omitempty"`
}
