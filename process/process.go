// Package process implements the per-source synchronization passes that
// turn raw source records into unified lifestream events.
//
// Every pass follows the same shape: fetch the raw records, and for each
// one resolve the existing event by (source, foreign id), apply the
// source's admission rule, then insert, update metadata, or skip. Domain
// classification failures (unsupported subtypes, unrenderable records,
// admission skips) are recovered per record; fetch and storage failures
// abort the rest of the run.
package process

import "errors"

// ErrUnsupportedSubtype marks a code-activity record whose subtype has
// no normalization rule. The record is skipped, not failed.
var ErrUnsupportedSubtype = errors.New("unsupported event subtype")

// errSkipRecord wraps record-level normalization failures that must not
// abort the rest of a run. Anything not wrapped by it propagates.
var errSkipRecord = errors.New("skipping record")

// Report tallies per-record outcomes of one synchronization pass.
type Report struct {
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeInserted
	outcomeUpdated
)

func (r *Report) add(o outcome) {
	switch o {
	case outcomeInserted:
		r.Inserted++
	case outcomeUpdated:
		r.Updated++
	case outcomeSkipped:
		r.Skipped++
	}
}
