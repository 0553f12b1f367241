package crawler

import "sync"

// Task is one unit of crawl work: a normalized address to fetch and
// classify. Referrer records the page the address was discovered on and is
// used only for debug logging.
type Task struct {
	Address  string
	Referrer string
}

// Frontier is the shared work queue of the crawl. It deduplicates
// addresses, hands out tasks to workers, and decides when the crawl is
// finished.
//
// The queue is not static: workers append new tasks while executing old
// ones, so "queue empty" alone does not mean the crawl is done: a worker
// mid-fetch may be about to discover more links. The frontier therefore
// tracks an in-flight counter alongside the queue; the crawl is finished
// exactly when the queue is empty and no task is in flight, and that
// condition is only ever observed with the lock held.
//
// Design decision: We use a mutex plus sync.Cond rather than channels
// because:
//  1. Enqueue-once and dequeue must share one critical section with the
//     dedup set, which channels cannot express
//  2. Waiting workers must wake both on new work and on completion of the
//     last in-flight task
//  3. The same lock protects the discovered counter read by the progress
//     display
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	// tasks is the pending queue, drained FIFO.
	tasks []Task

	// seen holds every address ever scheduled. An address enters seen at
	// most once, so at most one outcome is ever produced for it.
	seen map[string]bool

	// visited holds addresses whose crawl-and-extract pass has started.
	// It guards against extracting the same page's links twice.
	visited map[string]bool

	// inFlight counts tasks that have been dequeued but whose execution,
	// including any enqueues of follow-up work, has not yet completed.
	inFlight int

	// closed aborts the crawl: workers drain nothing further and Next
	// reports done.
	closed bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{
		seen:    make(map[string]bool),
		visited: make(map[string]bool),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue schedules an address for checking. It returns false without
// queueing when the address was already scheduled at any point in the run.
func (f *Frontier) Enqueue(t Task) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.seen[t.Address] {
		return false
	}
	f.seen[t.Address] = true
	f.tasks = append(f.tasks, t)
	f.cond.Signal()
	return true
}

// Next blocks until a task is available, then claims it and marks it in
// flight. It returns ok=false only once the crawl is provably finished:
// the queue is empty and no claimed task could still enqueue follow-ups.
// A worker that observes an empty queue while tasks are in flight waits
// rather than exits.
func (f *Frontier) Next() (Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.tasks) == 0 && f.inFlight > 0 && !f.closed {
		f.cond.Wait()
	}

	if f.closed || len(f.tasks) == 0 {
		return Task{}, false
	}

	t := f.tasks[0]
	f.tasks = f.tasks[1:]
	f.inFlight++
	return t, true
}

// Done marks a claimed task as fully executed. The claiming worker must
// finish all its enqueues before calling Done; otherwise another worker
// could observe empty+idle and exit while work is still coming.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inFlight--
	if f.inFlight == 0 && len(f.tasks) == 0 {
		// Last task finished with nothing queued: wake every waiting
		// worker so they all observe the stopping condition.
		f.cond.Broadcast()
	}
}

// MarkVisited records that the crawl-and-extract pass for an address has
// begun. It returns false if the page was already visited.
func (f *Frontier) MarkVisited(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visited[address] {
		return false
	}
	f.visited[address] = true
	return true
}

// Discovered returns the number of distinct addresses scheduled so far.
// This is the (growing) denominator shown by the progress display.
func (f *Frontier) Discovered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// Close aborts the crawl. Pending tasks are discarded and all blocked
// workers are released. Used when the run context is cancelled.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.tasks = nil
	f.cond.Broadcast()
}
