package workerpool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed возвращает Submit после Close.
var ErrClosed = errors.New("workerpool: closed")

// Task: задача для пула. Fn выполняется одним из воркеров,
// результат уходит в ResultC, если канал задан.
type Task struct {
	Fn      func(ctx context.Context) (any, error)
	Ctx     context.Context
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	tasks chan Task
	quit  chan struct{}
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewWorkerPool создаёт пул с workerCount воркерами и очередью queueSize.
// При workerCount == 1 задачи выполняются строго по очереди.
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	wp := &WorkerPool{
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
	}
	wp.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.quit:
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			wp.run(task)
		}
	}
}

func (wp *WorkerPool) run(task Task) {
	ctx := task.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var res Result
	if err := ctx.Err(); err != nil {
		res.Err = err
	} else {
		res.Value, res.Err = task.Fn(ctx)
	}
	if task.ResultC != nil {
		task.ResultC <- res
	}
}

// Submit ставит задачу в очередь. Блокируется, пока очередь полна,
// и прерывается отменой ctx.
func (wp *WorkerPool) Submit(ctx context.Context, task Task) error {
	if task.Fn == nil {
		return errors.New("workerpool: nil task")
	}
	if task.Ctx == nil {
		task.Ctx = ctx
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrClosed
	}

	select {
	case wp.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.quit:
		return ErrClosed
	}
}

// Close останавливает воркеров и ждёт завершения уже начатых задач.
// Задачи, оставшиеся в очереди, не выполняются. Повторный вызов безопасен.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.quit)
		wp.mu.Lock()
		wp.closed = true
		wp.mu.Unlock()
		wp.wg.Wait()
	})
}

// Done закрывается при Close.
func (wp *WorkerPool) Done() <-chan struct{} {
	return wp.quit
}
