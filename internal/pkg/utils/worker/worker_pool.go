package worker

import "sync/atomic"

const queueSizePerWorker = 64

// WorkerPool runs post-commit side effects such as event publishing off the request path.
type WorkerPool struct {
	workers []*Worker
	next    atomic.Uint64
}

func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	pool := &WorkerPool{workers: make([]*Worker, numWorkers)}

	for i := 0; i < numWorkers; i++ {
		worker := NewWorker(queueSizePerWorker)
		worker.Start()
		pool.workers[i] = worker
	}

	return pool
}

// Stop drains every worker. Submit must not be called afterwards.
func (p *WorkerPool) Stop() {
	for _, worker := range p.workers {
		worker.Stop()
	}
}

// Submit hands the task to the next worker in round-robin order, moving on to
// the others when its queue is full. It never blocks and reports false when
// every queue is full.
func (p *WorkerPool) Submit(task Task) bool {
	start := p.next.Add(1) - 1
	n := uint64(len(p.workers))
	for i := uint64(0); i < n; i++ {
		if p.workers[(start+i)%n].Submit(task) {
			return true
		}
	}
	return false
}
