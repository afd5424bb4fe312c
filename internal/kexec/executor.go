package kexec

import (
	"fmt"

	"github.com/orizon-lang/corekernel/internal/kplatform"
)

// wakeQueueCapacity is the capacity requested for the queue of outstanding
// wakeups between passes of the run loop. newRing rounds it up to a power
// of two, so the wake queue holds 128 task IDs.
const wakeQueueCapacity = 100

// Executor is a single-threaded, cooperative task scheduler: tasks run
// until they return Pending, parking themselves on the waiting set until
// their Waker is invoked, typically from a simulated interrupt handler,
// at which point they move back onto the ready queue.
type Executor struct {
	ready      taskQueue
	waiting    map[TaskId]Task
	wakeQueue  *ring[TaskId]
	wakerCache map[TaskId]*Waker
	platform   kplatform.Platform
}

// NewExecutor builds an Executor that calls into platform to disable,
// enable, and halt-until-interrupt around idle periods.
func NewExecutor(platform kplatform.Platform) *Executor {
	return &Executor{
		waiting:    make(map[TaskId]Task),
		wakeQueue:  newRing[TaskId](wakeQueueCapacity),
		wakerCache: make(map[TaskId]*Waker),
		platform:   platform,
	}
}

// Spawn adds task to the ready queue. The ready queue has no fixed
// capacity, so spawning cannot fail and Spawn returns nothing.
func (e *Executor) Spawn(task Task) {
	e.ready.pushBack(task)
}

func (e *Executor) createWaker(task *Task) *Waker {
	if w, ok := e.wakerCache[task.ID()]; ok {
		return w
	}
	w := newWaker(task.ID(), e.wakeQueue)
	e.wakerCache[task.ID()] = w
	return w
}

func (e *Executor) runReady() {
	for {
		task, ok := e.ready.popFront()
		if !ok {
			return
		}

		waker := e.createWaker(&task)
		switch task.Poll(waker) {
		case Ready:
			delete(e.wakerCache, task.ID())
		case Pending:
			if _, dup := e.waiting[task.ID()]; dup {
				panic(fmt.Sprintf("kexec: %s inserted into the waiting set twice", task.ID()))
			}
			e.waiting[task.ID()] = task
		}
	}
}

func (e *Executor) wakeTasks() {
	for {
		id, ok := e.wakeQueue.Pop()
		if !ok {
			return
		}
		task, exists := e.waiting[id]
		if !exists {
			panic(fmt.Sprintf("kexec: %s woke with unknown task ID", id))
		}
		delete(e.waiting, id)
		e.ready.pushBack(task)
	}
}

func (e *Executor) sleepIfIdle() {
	if !e.wakeQueue.Empty() {
		return
	}

	e.platform.DisableInterrupts()
	if e.wakeQueue.Empty() {
		e.platform.EnableInterruptsAndHalt()
	} else {
		e.platform.EnableInterrupts()
	}
}

// Run drains wakes and ready tasks forever, halting the (simulated) CPU
// between passes whenever nothing is runnable. It never returns; it's
// meant to be the kernel's idle loop.
func (e *Executor) Run() {
	for {
		e.wakeTasks()
		e.runReady()
		e.sleepIfIdle()
	}
}

// RunUntilIdle drains wakes and ready tasks without ever invoking the
// platform's halt hook, returning as soon as both the wake queue and the
// ready queue are empty. Meant for tests and the demo binary, where an
// infinite Run loop isn't useful.
func (e *Executor) RunUntilIdle() {
	for {
		e.wakeTasks()
		e.runReady()
		if e.wakeQueue.Empty() && e.ready.Len() == 0 {
			return
		}
	}
}

// Waiting reports the number of tasks currently parked awaiting a wake.
func (e *Executor) Waiting() int { return len(e.waiting) }

// ReadyLen reports the number of tasks currently in the ready queue.
func (e *Executor) ReadyLen() int { return e.ready.Len() }
