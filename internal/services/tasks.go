package services

import "household/internal/core"

// PendingTasks counts the tasks not yet completed.
func PendingTasks(tasks []core.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func SummarizeTasks(tasks []core.Task) core.TaskSummary {
	return core.TaskSummary{Total: len(tasks), Pending: PendingTasks(tasks)}
}
