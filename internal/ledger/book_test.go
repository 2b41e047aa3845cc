package ledger

import (
	"errors"
	"math"
	"testing"
)

func newTestBook(members ...string) *Book {
	b := NewBook()
	for _, m := range members {
		b.AddMember(m)
	}
	return b
}

func TestAddMember(t *testing.T) {
	b := NewBook()
	b.AddMember("alice")
	b.AddMember("alice") // idempotent

	if !b.HasMember("alice") {
		t.Error("expected alice to be a member")
	}
	if b.HasMember("bob") {
		t.Error("did not expect bob to be a member")
	}
	if got := len(b.Members()); got != 1 {
		t.Errorf("Members() len = %d, want 1", got)
	}
}

func TestRecordEqual(t *testing.T) {
	tests := []struct {
		name         string
		payer        string
		amount       float64
		participants []string
		wantErr      error
		wantShares   map[string]float64
	}{
		{
			name:         "three-way split",
			payer:        "alice",
			amount:       90,
			participants: []string{"alice", "bob", "carol"},
			wantShares:   map[string]float64{"alice": 30, "bob": 30, "carol": 30},
		},
		{
			name:         "duplicate participant accumulates two shares",
			payer:        "alice",
			amount:       30,
			participants: []string{"alice", "bob", "bob"},
			wantShares:   map[string]float64{"alice": 10, "bob": 20},
		},
		{
			name:         "unknown payer",
			payer:        "mallory",
			amount:       10,
			participants: []string{"alice"},
			wantErr:      ErrUnknownMember,
		},
		{
			name:         "no participants",
			payer:        "alice",
			amount:       10,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "unknown participant",
			payer:        "alice",
			amount:       10,
			participants: []string{"alice", "mallory"},
			wantErr:      ErrUnknownMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBook("alice", "bob", "carol")

			e, err := b.RecordEqual(tt.payer, tt.amount, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("RecordEqual() error = %v, want %v", err, tt.wantErr)
				}
				if len(b.Expenses()) != 0 {
					t.Error("book mutated despite validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("RecordEqual() error = %v", err)
			}

			if len(b.Expenses()) != 1 {
				t.Fatalf("expected one recorded expense, got %d", len(b.Expenses()))
			}
			if len(e.Shares) != len(tt.wantShares) {
				t.Fatalf("Shares len = %d, want %d", len(e.Shares), len(tt.wantShares))
			}
			var sum float64
			for name, want := range tt.wantShares {
				if got := e.Shares[name]; math.Abs(got-want) > 1e-9 {
					t.Errorf("share[%s] = %v, want %v", name, got, want)
				}
				sum += e.Shares[name]
			}
			if math.Abs(sum-tt.amount) > 1e-9 {
				t.Errorf("shares sum = %v, want %v", sum, tt.amount)
			}
		})
	}
}

func TestRecordEqual_ShareIsAmountOverCount(t *testing.T) {
	b := newTestBook("a", "b", "c", "d", "e", "f", "g")
	participants := []string{"a", "b", "c", "d", "e", "f", "g"}

	e, err := b.RecordEqual("a", 100, participants)
	if err != nil {
		t.Fatalf("RecordEqual() error = %v", err)
	}
	want := 100.0 / 7.0
	for _, p := range participants {
		if math.Abs(e.Shares[p]-want) > 1e-9 {
			t.Errorf("share[%s] = %v, want %v", p, e.Shares[p], want)
		}
	}
}

func TestRecordExact(t *testing.T) {
	tests := []struct {
		name       string
		payer      string
		amount     float64
		tokens     []string
		wantErr    error
		wantShares map[string]float64
	}{
		{
			name:       "matching shares",
			payer:      "alice",
			amount:     100,
			tokens:     []string{"bob:70", "carol:30"},
			wantShares: map[string]float64{"bob": 70, "carol": 30},
		},
		{
			name:       "repeated name accumulates",
			payer:      "alice",
			amount:     50,
			tokens:     []string{"bob:20", "bob:30"},
			wantShares: map[string]float64{"bob": 50},
		},
		{
			name:       "mismatch within tolerance is accepted",
			payer:      "alice",
			amount:     10,
			tokens:     []string{"bob:5", "carol:5.005"},
			wantShares: map[string]float64{"bob": 5, "carol": 5.005},
		},
		{
			name:    "unknown payer",
			payer:   "mallory",
			amount:  10,
			tokens:  []string{"bob:10"},
			wantErr: ErrUnknownMember,
		},
		{
			name:    "no tokens",
			payer:   "alice",
			amount:  10,
			tokens:  nil,
			wantErr: ErrNoShares,
		},
		{
			name:    "token without separator",
			payer:   "alice",
			amount:  10,
			tokens:  []string{"bob10"},
			wantErr: ErrBadShareToken,
		},
		{
			name:    "token with non-numeric amount",
			payer:   "alice",
			amount:  10,
			tokens:  []string{"bob:ten"},
			wantErr: ErrBadShareToken,
		},
		{
			name:    "unknown participant",
			payer:   "alice",
			amount:  10,
			tokens:  []string{"mallory:10"},
			wantErr: ErrUnknownMember,
		},
		{
			name:    "share sum off by more than tolerance",
			payer:   "alice",
			amount:  10,
			tokens:  []string{"bob:5", "carol:5.02"},
			wantErr: ErrShareMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBook("alice", "bob", "carol")

			e, err := b.RecordExact(tt.payer, tt.amount, tt.tokens)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("RecordExact() error = %v, want %v", err, tt.wantErr)
				}
				if len(b.Expenses()) != 0 {
					t.Error("book mutated despite validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("RecordExact() error = %v", err)
			}

			for name, want := range tt.wantShares {
				if got := e.Shares[name]; math.Abs(got-want) > 1e-9 {
					t.Errorf("share[%s] = %v, want %v", name, got, want)
				}
			}
		})
	}
}

func TestReset(t *testing.T) {
	b := newTestBook("alice", "bob")
	if _, err := b.RecordEqual("alice", 10, []string{"bob"}); err != nil {
		t.Fatalf("RecordEqual() error = %v", err)
	}

	b.Reset()

	if len(b.Members()) != 0 {
		t.Error("expected no members after Reset")
	}
	if len(b.Expenses()) != 0 {
		t.Error("expected no expenses after Reset")
	}
}
