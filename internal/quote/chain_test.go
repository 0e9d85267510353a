package quote

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	name    string
	price   float64
	err     error
	delay   time.Duration
	timeout time.Duration
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Timeout() time.Duration {
	if f.timeout == 0 {
		return time.Second
	}
	return f.timeout
}

func (f *fakeProvider) FetchPrice(ctx context.Context) (float64, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func TestChain_FirstSuccessShortCircuits(t *testing.T) {
	first := &fakeProvider{name: "primary", price: 2700}
	second := &fakeProvider{name: "backup", price: 2650}
	chain := NewChain([]Provider{first, second}, 0)

	pt, err := chain.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Price != 2700 || pt.Source != "primary" || pt.Stale {
		t.Errorf("unexpected point: %+v", pt)
	}
	if second.calls != 0 {
		t.Errorf("backup provider should not be called, got %d calls", second.calls)
	}
}

func TestChain_TimeoutFallsThrough(t *testing.T) {
	slow := &fakeProvider{name: "slow", price: 2700, delay: 200 * time.Millisecond, timeout: 20 * time.Millisecond}
	backup := &fakeProvider{name: "backup", price: 2650}
	chain := NewChain([]Provider{slow, backup}, 0)

	pt, err := chain.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Price != 2650.00 {
		t.Errorf("expected backup price 2650.00, got %.2f", pt.Price)
	}
	if pt.Source != "backup" {
		t.Errorf("expected source backup, got %s", pt.Source)
	}
	if pt.Stale {
		t.Error("fresh fetch must not be stale")
	}
}

func TestChain_NonPositivePriceIsFailure(t *testing.T) {
	bogus := &fakeProvider{name: "bogus", price: -1}
	backup := &fakeProvider{name: "backup", price: 2650}
	chain := NewChain([]Provider{bogus, backup}, 0)

	pt, err := chain.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Source != "backup" {
		t.Errorf("expected backup to win after bogus price, got %s", pt.Source)
	}
}

func TestChain_AllFailServesFallbackConstant(t *testing.T) {
	down := &fakeProvider{name: "down", err: errors.New("boom")}
	chain := NewChain([]Provider{down}, 2600)

	pt, err := chain.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pt.Stale {
		t.Error("fallback constant must be marked stale")
	}
	if pt.Price != 2600 || pt.Source != "fallback" {
		t.Errorf("unexpected fallback point: %+v", pt)
	}
}

func TestChain_AllFailServesLastKnown(t *testing.T) {
	flaky := &fakeProvider{name: "flaky", price: 2655}
	chain := NewChain([]Provider{flaky}, 2600)

	if _, err := chain.Fetch(context.Background()); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	flaky.err = errors.New("down now")
	pt, err := chain.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pt.Stale {
		t.Error("last-known price must be marked stale")
	}
	if pt.Price != 2655 || pt.Source != "flaky" {
		t.Errorf("expected last known price from flaky, got %+v", pt)
	}
}

func TestChain_NothingAtAll(t *testing.T) {
	down := &fakeProvider{name: "down", err: errors.New("boom")}
	chain := NewChain([]Provider{down}, 0)

	if _, err := chain.Fetch(context.Background()); !errors.Is(err, ErrNoProviderAvailable) {
		t.Errorf("expected ErrNoProviderAvailable, got %v", err)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$2,650.40", 2650.40, false},
		{"2650.40 USD", 2650.40, false},
		{"  $1,999  ", 1999, false},
		{"n/a", 0, true},
		{"$0.00", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePrice(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
