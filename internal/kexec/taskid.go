package kexec

import (
	"fmt"
	"sync/atomic"
)

// TaskId is a globally unique, monotonically increasing task identifier.
type TaskId uint64

var nextTaskID atomic.Uint64

// NewTaskID allocates the next globally unique task identifier.
func NewTaskID() TaskId {
	return TaskId(nextTaskID.Add(1))
}

func (id TaskId) String() string { return fmt.Sprintf("task#%d", uint64(id)) }
