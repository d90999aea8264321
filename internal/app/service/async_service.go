package service

import (
	"context"

	"shiftbook/pkg/workerpool"
)

// AsyncService выполняет изменения журнала через пул воркеров.
// С одним воркером записи идут строго по очереди, даже если
// бот обрабатывает обновления параллельно.
type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

func (a *AsyncService) SubmitAsync(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	resCh := make(chan workerpool.Result, 1)
	err := a.Pool.Submit(ctx, workerpool.Task{
		Fn:      fn,
		Ctx:     ctx,
		ResultC: resCh,
	})
	if err != nil {
		return nil, err
	}

	select {
	case res := <-resCh:
		return res.Value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.Pool.Done():
		return nil, workerpool.ErrClosed
	}
}

// Run: типизированная обёртка над SubmitAsync.
func Run[T any](ctx context.Context, a *AsyncService, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := a.SubmitAsync(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
