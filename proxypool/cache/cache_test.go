package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"proxyist/proxypool/model"
)

func makeRecords(n int) []*model.ProxyRecord {
	records := make([]*model.ProxyRecord, n)
	for i := range records {
		records[i] = model.NewProxyRecord(fmt.Sprintf("10.0.0.%d", i+1), "8080", "Germany", "DE", model.ProtocolHTTP, "now")
	}
	return records
}

// countingRefill 返回固定记录并统计调用次数。
type countingRefill struct {
	records []*model.ProxyRecord
	err     error
	calls   atomic.Int32
}

func (c *countingRefill) refill(ctx context.Context) ([]*model.ProxyRecord, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

func last(n int) int { return n - 1 }

func TestDraw_RefillReturnsFirstRecord(t *testing.T) {
	records := makeRecords(3)
	src := &countingRefill{records: records}
	p := NewPool()

	r, err := p.Draw(context.Background(), src.refill, last)
	if err != nil {
		t.Fatalf("Draw() returned an error: %v", err)
	}
	if r != records[0] {
		t.Errorf("Expected the first record after a refill, but got %+v", r)
	}
	if p.Len() != 2 {
		t.Errorf("Expected 2 records left, but got %d", p.Len())
	}
}

func TestDraw_SubsequentDrawsUseIntn(t *testing.T) {
	records := makeRecords(3)
	src := &countingRefill{records: records}
	p := NewPool()

	p.Draw(context.Background(), src.refill, last)
	r, err := p.Draw(context.Background(), src.refill, last)
	if err != nil {
		t.Fatalf("Draw() returned an error: %v", err)
	}
	if r != records[2] {
		t.Errorf("Expected the record picked by intn, but got %+v", r)
	}
}

func TestDraw_DepletesWithoutRepeatsThenRefillsOnce(t *testing.T) {
	const n = 5
	src := &countingRefill{records: makeRecords(n)}
	p := NewPool()
	p.refillLocked(src.records)

	seen := make(map[*model.ProxyRecord]bool)
	for i := 0; i < n; i++ {
		r, err := p.Draw(context.Background(), src.refill, func(k int) int { return k / 2 })
		if err != nil {
			t.Fatalf("Draw() returned an error: %v", err)
		}
		if seen[r] {
			t.Fatalf("Record drawn twice: %+v", r)
		}
		seen[r] = true
	}
	if src.calls.Load() != 0 {
		t.Fatalf("Expected no refill while the pool had records, but got %d", src.calls.Load())
	}

	if _, err := p.Draw(context.Background(), src.refill, last); err != nil {
		t.Fatalf("Draw() returned an error: %v", err)
	}
	if src.calls.Load() != 1 {
		t.Errorf("Expected exactly one refill, but got %d", src.calls.Load())
	}
}

func TestDraw_RefillErrorLeavesPoolUntouched(t *testing.T) {
	boom := errors.New("boom")
	src := &countingRefill{err: boom}
	p := NewPool()

	r, err := p.Draw(context.Background(), src.refill, last)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the refill error, but got %v", err)
	}
	if r != nil {
		t.Errorf("Expected no record on error, but got %+v", r)
	}
	if p.Len() != 0 {
		t.Error("Expected the pool to stay empty")
	}
}

func TestDraw_EmptyRefillReturnsNil(t *testing.T) {
	src := &countingRefill{records: nil}
	p := NewPool()

	r, err := p.Draw(context.Background(), src.refill, last)
	if err != nil {
		t.Fatalf("Draw() returned an error: %v", err)
	}
	if r != nil {
		t.Errorf("Expected nil from an empty refill, but got %+v", r)
	}
}

func TestDraw_ConcurrentDrawsAreDistinct(t *testing.T) {
	const n = 50
	src := &countingRefill{records: makeRecords(n)}
	p := NewPool()

	var wg sync.WaitGroup
	results := make(chan *model.ProxyRecord, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := p.Draw(context.Background(), src.refill, func(k int) int { return k - 1 })
			if err != nil {
				t.Errorf("Draw() returned an error: %v", err)
				return
			}
			results <- r
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[*model.ProxyRecord]bool)
	for r := range results {
		if r == nil {
			t.Fatal("Expected a record from every draw")
		}
		if seen[r] {
			t.Fatalf("Record drawn twice: %+v", r)
		}
		seen[r] = true
	}
	if len(seen) != n {
		t.Errorf("Expected %d distinct records, but got %d", n, len(seen))
	}
	if src.calls.Load() != 1 {
		t.Errorf("Expected exactly one refill, but got %d", src.calls.Load())
	}
}

func TestRefillLocked_CopiesInput(t *testing.T) {
	records := makeRecords(2)
	p := NewPool()
	p.refillLocked(records)

	p.takeLocked(0)
	if records[0] == nil || records[1] == nil || len(records) != 2 {
		t.Error("Expected the caller's slice to be left intact")
	}
}

func TestTakeLocked_OutOfRange(t *testing.T) {
	p := NewPool()
	p.refillLocked(makeRecords(1))

	if _, ok := p.takeLocked(1); ok {
		t.Error("Expected takeLocked(1) to fail on a single-record pool")
	}
	if _, ok := p.takeLocked(-1); ok {
		t.Error("Expected takeLocked(-1) to fail")
	}
	if _, ok := p.takeLocked(0); !ok {
		t.Error("Expected takeLocked(0) to succeed")
	}
}
