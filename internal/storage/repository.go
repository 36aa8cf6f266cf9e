package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	AppendCycle(ctx context.Context, in CycleRecord) error
	ListCycles(ctx context.Context, filter CycleListFilter) ([]CycleRecord, error)
	CountCycles(ctx context.Context, filter CycleListFilter) (int, error)
}
