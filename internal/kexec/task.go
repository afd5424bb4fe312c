package kexec

// Poll is the result of driving a Task forward one step.
type Poll int

const (
	Pending Poll = iota
	Ready
)

func (p Poll) String() string {
	if p == Ready {
		return "ready"
	}
	return "pending"
}

// Future is a task body driven to completion by repeated polling. It
// returns Pending if it has more work to do, having first registered w
// with whatever condition it's waiting on so w.Wake is called once that
// condition is met, or Ready once done. A task body is a closure over its
// own state, re-entered from the top on every poll rather than resumed
// mid-body.
type Future func(w *Waker) Poll

// Task pairs a Future with the stable identifier the executor and its
// wakers use to refer to it.
type Task struct {
	id     TaskId
	future Future
}

// NewTask wraps f as a schedulable Task with a fresh TaskId.
func NewTask(f Future) Task {
	return Task{id: NewTaskID(), future: f}
}

// ID returns the task's identifier.
func (t *Task) ID() TaskId { return t.id }

// Poll drives the task one step forward.
func (t *Task) Poll(w *Waker) Poll { return t.future(w) }
