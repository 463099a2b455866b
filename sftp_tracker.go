package main

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// minSpeedSampleSeconds suppresses speed samples from callbacks spaced closer
// than this; such ticks report speed 0 rather than a noisy spike.
const minSpeedSampleSeconds = 0.1

// TransferTracker owns the registry of in-flight transfer records and the
// set of transfer IDs flagged for cancellation. It is the single source of
// truth for cooperative cancellation checks.
type TransferTracker struct {
	mu        sync.Mutex
	records   map[TransferID]*TransferRecord
	cancelled map[TransferID]bool
	now       func() time.Time
}

// NewTransferTracker creates an empty tracker. now is replaceable for tests.
func NewTransferTracker() *TransferTracker {
	return &TransferTracker{
		records:   make(map[TransferID]*TransferRecord),
		cancelled: make(map[TransferID]bool),
		now:       time.Now,
	}
}

// Begin registers a new transfer record.
func (t *TransferTracker) Begin(id TransferID, transferType, srcPath, destPath, fileName string, totalBytes int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.records) >= MaxActiveTransfers {
		return fmt.Errorf("maximum number of active transfers (%d) reached", MaxActiveTransfers)
	}

	now := t.now()
	t.records[id] = &TransferRecord{
		ID:         id,
		Type:       transferType,
		SrcPath:    srcPath,
		DestPath:   destPath,
		FileName:   fileName,
		TotalBytes: totalBytes,
		StartTime:  now,
		LastUpdate: now,
	}
	return nil
}

// Update records a progress sample and returns the resulting event.
// Speed is the single most recent delta, not a moving average, so
// consecutive samples can vary; ticks closer than 100ms report speed 0.
func (t *TransferTracker) Update(id TransferID, transferredBytes, totalBytes int64) (ProgressEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return ProgressEvent{}, false
	}

	now := t.now()
	timeDiff := now.Sub(rec.LastUpdate).Seconds()

	var speed float64
	if timeDiff >= minSpeedSampleSeconds {
		speed = float64(transferredBytes-rec.LastBytes) / timeDiff
	}

	var remaining int64
	if speed > 0 {
		remaining = int64(math.Round(float64(totalBytes-transferredBytes) / speed))
		if remaining < 0 {
			remaining = 0
		}
	}

	progress := 0
	if totalBytes > 0 {
		progress = int(math.Round(float64(transferredBytes) / float64(totalBytes) * 100))
	}

	rec.TransferredBytes = transferredBytes
	rec.TotalBytes = totalBytes
	rec.LastUpdate = now
	rec.LastBytes = transferredBytes
	rec.Speed = speed
	rec.RemainingTime = remaining

	return ProgressEvent{
		TransferID:       id,
		Type:             rec.Type,
		FileName:         rec.FileName,
		Progress:         progress,
		TransferredBytes: transferredBytes,
		TotalBytes:       totalBytes,
		TransferSpeed:    speed,
		RemainingTime:    remaining,
	}, true
}

// End removes the transfer record and its cancellation flag, regardless of
// why the transfer finished. Safe to call for an already-removed id.
func (t *TransferTracker) End(id TransferID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, id)
	delete(t.cancelled, id)
}

// RequestCancel flags an active transfer for cooperative cancellation.
// The flag is advisory: the transfer observes it at its next chunk boundary.
func (t *TransferTracker) RequestCancel(id TransferID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[id]; !ok {
		return fmt.Errorf("no active transfer with id %s", id)
	}
	t.cancelled[id] = true
	return nil
}

// IsCancelled reports whether a transfer has been flagged for cancellation.
func (t *TransferTracker) IsCancelled(id TransferID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled[id]
}

// ActiveCount returns the number of in-flight transfers.
func (t *TransferTracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Record returns a copy of the record for an active transfer.
func (t *TransferTracker) Record(id TransferID) (TransferRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return TransferRecord{}, false
	}
	return *rec, true
}
