// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package lock serializes work on a single document across goroutines
// and, with Redis, across service instances.
package lock

import (
	"context"
	"sync"
)

// Locker hands out exclusive per-key locks. The returned function
// releases the lock and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type memoryEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is an in-process Locker. Entries are dropped once no
// goroutine holds or waits for them.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryLocker creates a MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		entries: make(map[string]*memoryEntry),
	}
}

// Lock blocks until the key is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &memoryEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, entry *memoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}

// Held returns the number of keys currently locked or waited on.
func (l *MemoryLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
