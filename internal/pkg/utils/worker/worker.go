package worker

// Task represents a unit of work to be processed by a worker
type Task func()

// Worker is a goroutine that processes tasks from a channel
type Worker struct {
	taskQueue chan Task
	stop      chan struct{}
	done      chan struct{}
}

func NewWorker(queueSize int) *Worker {
	return &Worker{
		taskQueue: make(chan Task, queueSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs queued tasks until Stop. Tasks already queued when Stop is called still run.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		for {
			select {
			case task := <-w.taskQueue:
				task()
			case <-w.stop:
				for {
					select {
					case task := <-w.taskQueue:
						task()
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop signals the worker and waits for its queue to drain.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// Submit queues the task without blocking and reports false when the queue is full.
func (w *Worker) Submit(task Task) bool {
	select {
	case w.taskQueue <- task:
		return true
	default:
		return false
	}
}
