package pipeline

// Status classifies the outcome of handling one URL within a run. It is
// in-memory only; the persisted record stores nothing but the URLs that
// reached StatusSummarizedPosted.
type Status int

const (
	StatusUnknown Status = iota
	StatusDuplicateRun
	StatusDuplicateRecorded
	StatusDuplicateLive
	StatusSkippedExcluded
	StatusScrapeFailed
	StatusSummaryFailed
	StatusSummaryEmpty
	StatusPostFailedFormatting
	StatusPostFailedThreadCreate
	StatusPostFailedChunk
	StatusSummarizedPosted
)

var statusNames = map[Status]string{
	StatusUnknown:                "UNKNOWN",
	StatusDuplicateRun:           "DUPLICATE_RUN",
	StatusDuplicateRecorded:      "DUPLICATE_RECORDED",
	StatusDuplicateLive:          "DUPLICATE_LIVE",
	StatusSkippedExcluded:        "SKIPPED_EXCLUDED",
	StatusScrapeFailed:           "FAILED_SCRAPE",
	StatusSummaryFailed:          "FAILED_SUMMARY",
	StatusSummaryEmpty:           "FAILED_EMPTY_SUMMARY",
	StatusPostFailedFormatting:   "POST_FAILED_FORMATTING",
	StatusPostFailedThreadCreate: "POST_FAILED_THREAD_CREATE",
	StatusPostFailedChunk:        "POST_FAILED_CHUNK",
	StatusSummarizedPosted:       "SUMMARIZED_POSTED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Posted reports whether the URL's summary was fully delivered.
func (s Status) Posted() bool {
	return s == StatusSummarizedPosted
}

// Duplicate reports whether the URL was skipped as already handled.
func (s Status) Duplicate() bool {
	switch s {
	case StatusDuplicateRun, StatusDuplicateRecorded, StatusDuplicateLive:
		return true
	}
	return false
}
