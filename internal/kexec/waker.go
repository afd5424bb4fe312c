package kexec

import "fmt"

// Waker lets a pending Task schedule itself back onto the executor's ready
// queue once whatever it was waiting for becomes available.
type Waker struct {
	taskID TaskId
	wakeQ  *ring[TaskId]
}

func newWaker(id TaskId, wakeQ *ring[TaskId]) *Waker {
	return &Waker{taskID: id, wakeQ: wakeQ}
}

// Wake enqueues this waker's task onto the wake queue. A nil or queueless
// Waker (SimpleExecutor's dummy waker) is a genuine no-op. A full wake
// queue is a fatal invariant violation: more tasks are pending wakeup than
// the fixed-capacity queue was sized for.
func (w *Waker) Wake() {
	if w == nil || w.wakeQ == nil {
		return
	}
	if !w.wakeQ.Push(w.taskID) {
		panic(fmt.Sprintf("kexec: wake queue full waking %s", w.taskID))
	}
}
