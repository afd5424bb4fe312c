package kexec

// dummyWaker is a genuine no-op: SimpleExecutor re-polls every pending
// task unconditionally every pass, so nothing needs to happen when a task
// calls Wake under it. (Waker.Wake nil/queueless-checks before touching a
// wake queue, so this zero-value Waker is safe to share.)
var dummyWaker = &Waker{}

// SimpleExecutor is a round-robin, wake-oblivious executor: a pending task
// is pushed straight back onto the ready queue instead of parking until
// woken. It exists as a simple baseline next to Executor, not as a
// production scheduler: busy-polling
// every pending task every pass burns CPU an interrupt-driven kernel
// cannot spare.
type SimpleExecutor struct {
	tasks taskQueue
}

// NewSimpleExecutor builds an empty SimpleExecutor.
func NewSimpleExecutor() *SimpleExecutor {
	return &SimpleExecutor{}
}

// Spawn adds task to the run queue.
func (e *SimpleExecutor) Spawn(task Task) {
	e.tasks.pushBack(task)
}

// Run polls every task in turn, requeuing any that return Pending, until
// every task spawned has returned Ready.
func (e *SimpleExecutor) Run() {
	for {
		task, ok := e.tasks.popFront()
		if !ok {
			return
		}
		if task.Poll(dummyWaker) == Pending {
			e.tasks.pushBack(task)
		}
	}
}
