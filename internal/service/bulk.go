// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"

	"catalogd/internal/models"
)

// DefaultChunkSize is how many entities one bulk chunk commits together.
const DefaultChunkSize = 50

// Progress is a point-in-time snapshot of a running bulk operation.
// ProcessedCount counts every chunk the run has worked through, erroring
// chunks included; it falls short of TotalCount only when the run is cut
// off by cancellation or an unhandled fault.
type Progress struct {
	Description    string   `json:"description"`
	TotalCount     int      `json:"total_count"`
	ProcessedCount int      `json:"processed_count"`
	Errors         []string `json:"errors,omitempty"`
}

// ProgressFn receives progress snapshots: once up front, once per chunk,
// once on completion. May be nil.
type ProgressFn func(Progress)

// BulkUpdater pushes large batches through the Writer in independent
// chunks. A failed chunk is recorded and the run moves on; committed
// chunks stay committed. Cancellation stops between chunks, and a panic
// inside a chunk is captured as the run's final error instead of taking
// the process down.
type BulkUpdater struct {
	writer    *Writer
	chunkSize int
}

// NewBulkUpdater wires a BulkUpdater (DefaultChunkSize if size is zero).
func NewBulkUpdater(w *Writer, size int) *BulkUpdater {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &BulkUpdater{writer: w, chunkSize: size}
}

// UpdateProducts saves products chunk by chunk.
func (b *BulkUpdater) UpdateProducts(ctx context.Context, prods []*models.Product, report ProgressFn) (Progress, error) {
	return run(ctx, b, "bulk product update", prods, report, b.writer.SaveProducts)
}

// UpdateCategories saves categories chunk by chunk.
func (b *BulkUpdater) UpdateCategories(ctx context.Context, cats []*models.Category, report ProgressFn) (Progress, error) {
	return run(ctx, b, "bulk category update", cats, report, b.writer.SaveCategories)
}

// UpdateProperties saves property definitions chunk by chunk.
func (b *BulkUpdater) UpdateProperties(ctx context.Context, props []*models.Property, report ProgressFn) (Progress, error) {
	return run(ctx, b, "bulk property update", props, report, b.writer.SaveProperties)
}

func run[T any](ctx context.Context, b *BulkUpdater, desc string, items []T, report ProgressFn, save func(context.Context, []T) error) (Progress, error) {
	prog := Progress{Description: desc, TotalCount: len(items)}
	emit := func() {
		if report != nil {
			report(prog)
		}
	}
	emit()

	for start := 0; start < len(items); start += b.chunkSize {
		if err := ctx.Err(); err != nil {
			prog.Errors = append(prog.Errors, fmt.Sprintf("canceled after %d of %d: %v", prog.ProcessedCount, prog.TotalCount, err))
			emit()
			return prog, err
		}
		end := min(start+b.chunkSize, len(items))
		if err := saveChunk(ctx, save, items[start:end]); err != nil {
			prog.Errors = append(prog.Errors, fmt.Sprintf("items %d-%d: %v", start, end-1, err))
			if isFault(err) {
				// Something is structurally wrong; further chunks would
				// most likely hit it too.
				emit()
				return prog, err
			}
		}
		// An erroring chunk is still accounted for; its failure lives in
		// Errors, not in a shortfall of the count.
		prog.ProcessedCount += end - start
		emit()
	}
	emit()
	return prog, nil
}

// saveChunk runs one chunk, converting a panic into a faultError.
func saveChunk[T any](ctx context.Context, save func(context.Context, []T) error, chunk []T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &faultError{cause: fmt.Sprintf("%v", r)}
		}
	}()
	return save(ctx, chunk)
}

// faultError marks an unhandled fault (panic) inside a chunk.
type faultError struct {
	cause string
}

func (e *faultError) Error() string { return "unhandled fault: " + e.cause }

func isFault(err error) bool {
	_, ok := err.(*faultError)
	return ok
}
