package recurrence

// Update pairs a task id with its freshly computed next occurrence, for the
// caller to persist.
type Update struct {
	TaskID uint
	Next   Day
}

// BatchResult reports what a roll-forward pass decided.
type BatchResult struct {
	Updates []Update
	Skipped int
}

// maxCatchUpSteps bounds the per-task walk toward the future. A daily task
// dormant for a decade still catches up well within this.
const maxCatchUpSteps = 4096

// AdvanceAll scans incomplete recurring tasks and recomputes each one's next
// occurrence. Tasks already scheduled in the future, past their end date, or
// carrying a malformed rule are counted in Skipped and left untouched; one bad
// task never aborts the batch.
//
// The advancer catches up: an occurrence many intervals overdue is walked
// forward until it lands strictly after today, so a single run always leaves
// each live task scheduled in the future. Re-running it the same day with no
// completions in between therefore produces no updates at all.
func AdvanceAll(tasks []TaskState, today Day) BatchResult {
	var result BatchResult
	for _, task := range tasks {
		if !task.Recurring || task.Completed {
			continue
		}
		if task.CheckRecurring() != nil {
			result.Skipped++
			continue
		}
		if task.NextOccurrence != nil && task.NextOccurrence.After(today) {
			result.Skipped++
			continue
		}
		next, ok := advanceTask(task, today)
		if !ok {
			result.Skipped++
			continue
		}
		result.Updates = append(result.Updates, Update{TaskID: task.ID, Next: next})
	}
	return result
}

// advanceTask walks the rule forward from the task's base point until the
// candidate is strictly after today. The base prefers the last completion,
// then the stale cached occurrence, then the explicit due date, then today.
// ok is false when the rule has ended, its type is unknown, or the walk does
// not reach the future within bounds.
func advanceTask(task TaskState, today Day) (Day, bool) {
	rule := *task.Rule

	base := today
	switch {
	case task.LastCompletedAt != nil:
		base = *task.LastCompletedAt
	case task.NextOccurrence != nil:
		base = *task.NextOccurrence
	case task.DueDate != nil:
		base = *task.DueDate
	}

	candidate, err := NextOccurrence(rule, base)
	if err != nil {
		return Day{}, false
	}
	for steps := 0; !candidate.After(today); steps++ {
		if steps >= maxCatchUpSteps {
			return Day{}, false
		}
		candidate, err = NextOccurrence(rule, candidate)
		if err != nil {
			return Day{}, false
		}
	}
	if rule.Ended(candidate) {
		// Recurrence has run out. Leave the stored occurrence as is so the
		// caller can tell an expired task from a never-scheduled one.
		return Day{}, false
	}
	return candidate, true
}
