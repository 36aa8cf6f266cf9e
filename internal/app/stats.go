package app

import (
	"context"
	"time"

	"github.com/sandeepkv93/pomodo/internal/storage"
)

type Stats struct {
	TodayWork   int
	TodayBreak  int
	TotalWork   int
	TotalBreak  int
	FocusedTime time.Duration
	Recent      []storage.CycleRecord
}

// Stats summarizes the cycle log. Today starts at local midnight.
func (a *App) Stats(ctx context.Context, recent int) (Stats, error) {
	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out Stats
	var err error
	counts := []struct {
		dst    *int
		filter storage.CycleListFilter
	}{
		{&out.TodayWork, storage.CycleListFilter{Kind: "work", Since: &midnight}},
		{&out.TodayBreak, storage.CycleListFilter{Kind: "break", Since: &midnight}},
		{&out.TotalWork, storage.CycleListFilter{Kind: "work"}},
		{&out.TotalBreak, storage.CycleListFilter{Kind: "break"}},
	}
	for _, c := range counts {
		if *c.dst, err = a.repo.CountCycles(ctx, c.filter); err != nil {
			return Stats{}, err
		}
	}

	today, err := a.repo.ListCycles(ctx, storage.CycleListFilter{Kind: "work", Since: &midnight})
	if err != nil {
		return Stats{}, err
	}
	for _, rec := range today {
		out.FocusedTime += time.Duration(rec.DurationSec) * time.Second
	}

	if recent > 0 {
		out.Recent, err = a.repo.ListCycles(ctx, storage.CycleListFilter{Limit: recent})
		if err != nil {
			return Stats{}, err
		}
	}
	return out, nil
}

// TodayCount is the number of work periods finished since local midnight.
func (a *App) TodayCount(ctx context.Context) int {
	now := a.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	n, err := a.repo.CountCycles(ctx, storage.CycleListFilter{Kind: "work", Since: &midnight})
	if err != nil {
		a.logger.Printf("warning: count today's cycles: %v", err)
		return 0
	}
	return n
}
