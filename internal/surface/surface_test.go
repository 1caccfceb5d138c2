package surface_test

import (
	"errors"
	"testing"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
	"github.com/1broseidon/focusframe/internal/surface/surfacetest"
)

func TestAllocateFailureReturnsInertHandle(t *testing.T) {
	session := surfacetest.NewSession()
	session.CreateErr = surface.ErrOutOfResources

	h, err := surface.Allocate(session, surface.Options{Width: 1, Height: 1})
	if !errors.Is(err, surface.ErrOutOfResources) {
		t.Fatalf("expected out of resources, got %v", err)
	}
	if h == nil || h.Allocated() {
		t.Fatal("expected a non-nil inert handle")
	}

	h.ResizeAndMove(geom.XYWH(0, 0, 10, 10))
	h.Show()
	h.Hide()
	h.Release()
	if err := h.Draw(geom.XYWH(0, 0, 10, 10), func(surface.Canvas) {
		t.Fatal("inert handle must not paint")
	}); !errors.Is(err, surface.ErrInert) {
		t.Fatalf("expected ErrInert, got %v", err)
	}
	if ops := session.Ops(); len(ops) != 0 {
		t.Fatalf("inert handle recorded ops: %+v", ops)
	}
}

func TestHandleResizeAndMove(t *testing.T) {
	session := surfacetest.NewSession()
	h, err := surface.Allocate(session, surface.Options{Width: 1, Height: 1, Hidden: true})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	h.ResizeAndMove(geom.Rect{Left: 20, Top: 30, Right: 120, Bottom: 80})
	if got, want := session.Surface().Screen(), geom.XYWH(20, 30, 100, 50); got != want {
		t.Fatalf("surface at %v, want %v", got, want)
	}
}

func TestHandleDrawSkipsPostWhenLockFails(t *testing.T) {
	session := surfacetest.NewSession()
	h, err := surface.Allocate(session, surface.Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	session.LockErr = surface.ErrOutOfResources
	painted := false
	err = h.Draw(geom.XYWH(0, 0, 10, 10), func(surface.Canvas) { painted = true })
	if !errors.Is(err, surface.ErrOutOfResources) || painted {
		t.Fatalf("expected lock failure without painting, err=%v painted=%v", err, painted)
	}
	if posts := surfacetest.Filter(session.Ops(), surfacetest.OpPost); len(posts) != 0 {
		t.Fatalf("post after failed lock: %+v", posts)
	}

	session.LockErr = nil
	if err := h.Draw(geom.XYWH(0, 0, 0, 0), func(surface.Canvas) { painted = true }); !errors.Is(err, surface.ErrInvalidRegion) {
		t.Fatalf("expected invalid region for empty lock, got %v", err)
	}
}

func TestBatchClosesTokenAndTransaction(t *testing.T) {
	session := surfacetest.NewSession()

	var token *surface.Txn
	err := surface.Batch(session, func(tx *surface.Txn) {
		token = tx
		if !tx.Active() || !session.InTransaction() {
			t.Fatal("expected an active transaction inside the batch")
		}
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if token.Active() || session.InTransaction() {
		t.Fatal("transaction still open after batch")
	}

	var nilTx *surface.Txn
	if nilTx.Active() {
		t.Fatal("nil token must not be active")
	}
}

func TestBatchClosesOnPanic(t *testing.T) {
	session := surfacetest.NewSession()
	func() {
		defer func() { _ = recover() }()
		_ = surface.Batch(session, func(*surface.Txn) { panic("boom") })
	}()
	if session.InTransaction() {
		t.Fatal("panic left the transaction open")
	}
}
