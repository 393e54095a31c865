package store

import (
	"time"

	"github.com/lowitz/planview/internal/record"
)

// NoSchedule is the sentinel patch value that removes a schedule field
// entirely instead of setting it to an empty string.
const NoSchedule = "none"

// Shift is a relative schedule change applied per record, so a multi-task
// patch preserves the tasks' relative offsets.
type Shift struct {
	Days    int
	Minutes int

	// DateOnly collapses the shifted value to a bare date.
	DateOnly bool

	// Fallback is assigned verbatim to records that have no scheduled
	// value to shift from.
	Fallback string
}

// TaskPatch is a partial task record merged field-by-field onto current
// records by PatchTasks. Nil fields are left untouched.
type TaskPatch struct {
	Scheduled *string
	Due       *string
	Completed *bool
	Duration  *int
	Shift     *Shift
}

// PatchResult reports the outcome of one id within a batched patch.
type PatchResult struct {
	ID      string
	Err     error
	Skipped bool // id no longer present in the table; treated as a no-op
}

// Failed reports whether any id in a batch result set failed its write.
func Failed(results []PatchResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// PatchTasks is the sole task-mutation entry point. Ids are processed
// sequentially and independently: each id's record is merged with the
// patch, written through the task store API, and committed to the table
// only if the write succeeds. A failed write is reported in the result set
// and does not abort the remaining ids. Ids missing from the table degrade
// to no-ops. If the patch completes a task, the completion chime fires
// best-effort on a separate goroutine.
func (s *Store) PatchTasks(ids []string, patch TaskPatch) []PatchResult {
	results := make([]PatchResult, 0, len(ids))
	committed := make([]record.Task, 0, len(ids))

	for _, id := range ids {
		cur, ok := s.Read(id)
		if !ok {
			results = append(results, PatchResult{ID: id, Skipped: true})
			continue
		}

		next := mergeTask(cur, patch)

		if s.writer != nil {
			if err := s.writer.SaveTask(next); err != nil {
				results = append(results, PatchResult{ID: id, Err: err})
				continue
			}
		}

		committed = append(committed, next)
		results = append(results, PatchResult{ID: id})

		if patch.Completed != nil && *patch.Completed && !cur.Completed && s.chime != nil {
			go s.chime()
		}
	}

	if len(committed) > 0 {
		s.Apply(func(st *Snapshot) {
			for _, t := range committed {
				st.Tasks[t.ID] = t
			}
		})
	}

	return results
}

// mergeTask applies a field-level merge of patch onto t.
func mergeTask(t record.Task, patch TaskPatch) record.Task {
	if patch.Scheduled != nil {
		if *patch.Scheduled == NoSchedule {
			t.Scheduled = ""
		} else {
			t.Scheduled = *patch.Scheduled
		}
	}
	if patch.Due != nil {
		if *patch.Due == NoSchedule {
			t.Due = ""
		} else {
			t.Due = *patch.Due
		}
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Duration != nil {
		t.Duration = *patch.Duration
	}
	if patch.Shift != nil {
		t.Scheduled = applyShift(t.Scheduled, *patch.Shift)
	}
	return t
}

func applyShift(scheduled string, sh Shift) string {
	if scheduled == "" {
		return sh.Fallback
	}
	ts, err := record.Parse(scheduled)
	if err != nil {
		return sh.Fallback
	}
	ts = ts.AddDate(0, 0, sh.Days).Add(time.Duration(sh.Minutes) * time.Minute)
	if sh.DateOnly {
		return record.FormatDate(ts)
	}
	if record.DateOnly(scheduled) && sh.Minutes == 0 {
		// A day-granular move keeps a date-only value date-only.
		return record.FormatDate(ts)
	}
	return record.FormatDateTime(ts)
}
