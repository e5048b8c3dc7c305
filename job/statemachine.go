// Package job implements the Job Manager (§4.5): the status state
// machine, concurrency-capped async processing, and cancellation.
package job

import "linthub.app/pkg/models"

// transitions enumerates every legal edge of the §4.5 state machine.
// The manager's status writes follow these edges by construction
// (process writes running, then one terminal status; Cancel refuses
// terminal jobs); canTransition itself is not called on the write path.
var transitions = map[models.JobStatus]map[models.JobStatus]bool{
	models.JobPending: {
		models.JobRunning:   true,
		models.JobCancelled: true,
	},
	models.JobRunning: {
		models.JobCompleted: true,
		models.JobFailed:    true,
		models.JobCancelled: true,
	},
	models.JobCompleted: {},
	models.JobFailed:    {},
	models.JobCancelled: {},
}

// canTransition reports whether moving from `from` to `to` is legal.
// Terminal states accept no further transitions.
func canTransition(from, to models.JobStatus) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	return edges[to]
}
