package dedup

import "log"

// Verdict classifies the result of a duplicate check.
type Verdict int

const (
	// Fresh means the URL has not been seen anywhere.
	Fresh Verdict = iota
	// SeenThisRun means the URL was already handled earlier in this run.
	SeenThisRun
	// SeenRecorded means the persisted record contains the URL.
	SeenRecorded
	// SeenLive means a live scan of the destination found the URL.
	SeenLive
)

// Detector layers the duplicate-detection strategies cheapest first:
// the in-run set, then the persisted record, then a live scan. Either
// of the latter two may be absent for a given deployment.
type Detector struct {
	Record *Record           // optional
	Scan   func(string) bool // optional live-scan closure bound to a destination

	seen map[string]bool
}

// Check returns the first positive verdict, short-circuiting so that no
// summarization spend happens for known URLs.
func (d *Detector) Check(url string) Verdict {
	if d.seen[url] {
		return SeenThisRun
	}
	if d.Record != nil && d.Record.Contains(url) {
		return SeenRecorded
	}
	if d.Scan != nil && d.Scan(url) {
		return SeenLive
	}
	return Fresh
}

// MarkSeen remembers a URL for the remainder of the run without
// touching the persisted record. Used for every URL once a decision is
// made about it, successful or not.
func (d *Detector) MarkSeen(url string) {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[url] = true
}

// Confirm records a URL as durably processed. Called only after every
// chunk of its summary has been delivered.
func (d *Detector) Confirm(url string) {
	d.MarkSeen(url)
	if d.Record == nil {
		return
	}
	if err := d.Record.Add(url); err != nil {
		log.Printf("WARNING: failed to save processed URLs after adding %s: %v", url, err)
	}
}
