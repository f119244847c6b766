// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"catalogd/internal/models"
)

func bulkProducts(n int) []*models.Product {
	catalogID := uuid.New()
	out := make([]*models.Product, n)
	for i := range out {
		out[i] = &models.Product{CatalogID: catalogID, SKU: fmt.Sprintf("SKU-%03d", i), Name: "p"}
	}
	return out
}

func newBulkWriter(newUOW func() UnitOfWork) *Writer {
	begin := func(context.Context) (UnitOfWork, error) { return newUOW(), nil }
	return NewWriter(newFakeWriteSource(), begin, nil, nil, nil)
}

func TestBulkFailedChunksDoNotStopTheRun(t *testing.T) {
	w := newBulkWriter(func() UnitOfWork { return &fakeUnitOfWork{} })
	b := NewBulkUpdater(w, 50)

	items := bulkProducts(250)
	// Poison one item in each of two chunks; validation fails the whole
	// chunk but the run continues.
	items[60].SKU = ""
	items[140].SKU = ""

	var snapshots []Progress
	prog, err := b.UpdateProducts(context.Background(), items, func(p Progress) {
		snapshots = append(snapshots, p)
	})
	if err != nil {
		t.Fatalf("UpdateProducts: %v (chunk errors belong in Progress)", err)
	}

	if prog.TotalCount != 250 {
		t.Errorf("TotalCount = %d, want 250", prog.TotalCount)
	}
	// Failed chunks are recorded in Errors but still counted: the final
	// summary of a run that reached the end matches the total.
	if prog.ProcessedCount != prog.TotalCount {
		t.Errorf("ProcessedCount = %d, want %d", prog.ProcessedCount, prog.TotalCount)
	}
	if len(prog.Errors) != 2 {
		t.Errorf("got %d chunk errors, want 2: %v", len(prog.Errors), prog.Errors)
	}
	if len(snapshots) == 0 {
		t.Fatal("no progress reported")
	}
	if first := snapshots[0]; first.ProcessedCount != 0 || first.TotalCount != 250 {
		t.Errorf("first snapshot = %+v, want the up-front zero report", first)
	}
	for i := 1; i < len(snapshots); i++ {
		if d := snapshots[i].ProcessedCount - snapshots[i-1].ProcessedCount; d != 0 && d != 50 {
			t.Errorf("snapshot %d advanced the count by %d, want chunk-sized steps", i, d)
		}
	}
}

func TestBulkPanicTerminatesWithFault(t *testing.T) {
	var begun int
	w := newBulkWriter(func() UnitOfWork {
		begun++
		uow := &fakeUnitOfWork{}
		if begun == 3 {
			uow.panicOn = "InsertProduct"
		}
		return uow
	})
	b := NewBulkUpdater(w, 50)

	prog, err := b.UpdateProducts(context.Background(), bulkProducts(250), nil)
	if err == nil {
		t.Fatal("a panicking chunk must fail the run")
	}
	if !isFault(err) {
		t.Errorf("expected a fault error, got %T: %v", err, err)
	}
	// Two chunks committed before the fault; nothing after it ran.
	if prog.ProcessedCount != 100 {
		t.Errorf("ProcessedCount = %d, want 100", prog.ProcessedCount)
	}
	if begun != 3 {
		t.Errorf("chunks begun = %d, want 3 (run stops at the fault)", begun)
	}
}

func TestBulkCancellationStopsBetweenChunks(t *testing.T) {
	w := newBulkWriter(func() UnitOfWork { return &fakeUnitOfWork{} })
	b := NewBulkUpdater(w, 50)

	ctx, cancel := context.WithCancel(context.Background())
	prog, err := b.UpdateProducts(ctx, bulkProducts(250), func(p Progress) {
		if p.ProcessedCount >= 100 {
			cancel()
		}
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if prog.ProcessedCount != 100 {
		t.Errorf("ProcessedCount = %d, want 100 (committed chunks stay committed)", prog.ProcessedCount)
	}
	if len(prog.Errors) != 1 {
		t.Errorf("cancellation should be recorded once, got %v", prog.Errors)
	}
}

func TestBulkDefaultChunkSize(t *testing.T) {
	w := newBulkWriter(func() UnitOfWork { return &fakeUnitOfWork{} })
	if b := NewBulkUpdater(w, 0); b.chunkSize != DefaultChunkSize {
		t.Errorf("chunkSize = %d, want %d", b.chunkSize, DefaultChunkSize)
	}
	if b := NewBulkUpdater(w, -5); b.chunkSize != DefaultChunkSize {
		t.Errorf("negative size: chunkSize = %d, want %d", b.chunkSize, DefaultChunkSize)
	}
}
