//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package symbolsearch looks up module symbols with a pool of workers.
package symbolsearch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
)

// minChunk is the smallest slice a worker scans. Shorter inputs are
// scanned inline.
const minChunk = 64

// Searcher scans symbol slices in parallel. The zero value is not usable;
// use New.
type Searcher struct {
	size int
	pool *ants.PoolWithFunc
}

type task struct {
	ctx     context.Context
	symbols []*semantic.Symbol
	offset  int
	match   func(*semantic.Symbol) bool
	found   []int
	slot    int
	wg      *sync.WaitGroup
}

var taskPool = &sync.Pool{New: func() any { return new(task) }}

func (t *task) reset() {
	*t = task{}
}

// New creates a searcher with size workers. A size of zero or less uses
// GOMAXPROCS.
func New(size int) (*Searcher, error) {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		t, ok := args.(*task)
		if !ok {
			panic("symbol search pool args type error")
		}
		wg := t.wg
		defer func() {
			wg.Done()
			t.reset()
			taskPool.Put(t)
		}()
		t.found[t.slot] = scan(t.ctx, t.symbols, t.offset, t.match)
	})
	if err != nil {
		return nil, fmt.Errorf("create symbol search pool: %w", err)
	}
	return &Searcher{size: size, pool: pool}, nil
}

// Close releases the workers.
func (s *Searcher) Close() {
	s.pool.Release()
}

// Find returns the first symbol, in slice order, for which match holds.
// The result does not depend on worker scheduling.
func (s *Searcher) Find(ctx context.Context, symbols []*semantic.Symbol,
	match func(*semantic.Symbol) bool) (*semantic.Symbol, bool) {
	if len(symbols) <= minChunk {
		if i := scan(ctx, symbols, 0, match); i >= 0 {
			return symbols[i], true
		}
		return nil, false
	}
	chunk := (len(symbols) + s.size - 1) / s.size
	if chunk < minChunk {
		chunk = minChunk
	}
	n := (len(symbols) + chunk - 1) / chunk
	found := make([]int, n)
	var wg sync.WaitGroup
	for slot := 0; slot < n; slot++ {
		lo := slot * chunk
		hi := min(lo+chunk, len(symbols))
		t := taskPool.Get().(*task)
		t.ctx, t.symbols, t.offset, t.match = ctx, symbols[lo:hi], lo, match
		t.found, t.slot, t.wg = found, slot, &wg
		wg.Add(1)
		if err := s.pool.Invoke(t); err != nil {
			wg.Done()
			found[slot] = scan(ctx, t.symbols, lo, match)
			t.reset()
			taskPool.Put(t)
		}
	}
	wg.Wait()
	for _, i := range found {
		if i >= 0 {
			return symbols[i], true
		}
	}
	return nil, false
}

// FindByName returns the first symbol named name.
func (s *Searcher) FindByName(ctx context.Context, symbols []*semantic.Symbol, name string) (*semantic.Symbol, bool) {
	return s.Find(ctx, symbols, func(sym *semantic.Symbol) bool { return sym.Name == name })
}

// scan returns the absolute index of the first match in symbols, or -1.
func scan(ctx context.Context, symbols []*semantic.Symbol, offset int, match func(*semantic.Symbol) bool) int {
	for i, sym := range symbols {
		if i%minChunk == 0 && ctx.Err() != nil {
			return -1
		}
		if sym != nil && match(sym) {
			return offset + i
		}
	}
	return -1
}

var (
	defaultOnce     sync.Once
	defaultSearcher *Searcher
	errDefault      error
)

// Default returns a process wide searcher sized to GOMAXPROCS.
func Default() (*Searcher, error) {
	defaultOnce.Do(func() {
		defaultSearcher, errDefault = New(0)
	})
	if defaultSearcher == nil && errDefault == nil {
		errDefault = errors.New("symbol search pool unavailable")
	}
	return defaultSearcher, errDefault
}

// FindByName searches with the default searcher and falls back to a
// sequential scan when no pool can be created.
func FindByName(ctx context.Context, symbols []*semantic.Symbol, name string) (*semantic.Symbol, bool) {
	s, err := Default()
	if err != nil {
		if i := scan(ctx, symbols, 0, func(sym *semantic.Symbol) bool { return sym.Name == name }); i >= 0 {
			return symbols[i], true
		}
		return nil, false
	}
	return s.FindByName(ctx, symbols, name)
}
