// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "sync"

// Mailbox passes frames from the logic goroutine to the render
// goroutine, keeping only the latest one. Publishing never blocks,
// so the logic goroutine never waits on rendering; a frame that is
// replaced before it is taken is dropped.
type Mailbox struct {
	mu      sync.Mutex
	frame   *Frame
	ready   chan struct{}
	dropped int
}

// NewMailbox returns a new empty [Mailbox].
func NewMailbox() *Mailbox {
	return &Mailbox{ready: make(chan struct{}, 1)}
}

// Publish replaces the pending frame.
func (mb *Mailbox) Publish(f *Frame) {
	mb.mu.Lock()
	if mb.frame != nil {
		mb.dropped++
	}
	mb.frame = f
	mb.mu.Unlock()
	select {
	case mb.ready <- struct{}{}:
	default:
	}
}

// Take returns the pending frame, if any, and empties the mailbox.
func (mb *Mailbox) Take() (*Frame, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	f := mb.frame
	mb.frame = nil
	return f, f != nil
}

// Ready returns a channel that receives after a frame is published.
func (mb *Mailbox) Ready() <-chan struct{} {
	return mb.ready
}

// Dropped returns the number of frames replaced before being taken.
func (mb *Mailbox) Dropped() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.dropped
}
