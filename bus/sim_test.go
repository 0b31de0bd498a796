package bus

import (
	"errors"
	"testing"
)

func TestSimSerialReads(t *testing.T) {
	s := NewSimSerial()

	if _, err := s.Read(0, 0o310); err == nil {
		t.Fatal("empty simulator returned data")
	}

	s.Set(0, 0o310, 850)
	w, err := s.Read(0, 0o310)
	if err != nil {
		t.Fatal(err)
	}
	if w.Data != 850 || w.Label != 0o310 {
		t.Fatalf("word = %+v", w)
	}
}

func TestSimSerialFaults(t *testing.T) {
	s := NewSimSerial()
	s.Set(0, 0o310, 850)
	s.Set(1, 0o310, 850)

	s.FailBus(0, Hardware)
	_, err := s.Read(0, 0o310)
	var busErr *Error
	if !errors.As(err, &busErr) || busErr.Kind != Hardware {
		t.Fatalf("err = %v, want hardware bus error", err)
	}
	if busErr.BusID != 0 {
		t.Errorf("bus id = %d, want 0", busErr.BusID)
	}

	// The other bus is unaffected.
	if _, err := s.Read(1, 0o310); err != nil {
		t.Fatalf("backup read failed: %v", err)
	}

	s.RestoreBus(0)
	if _, err := s.Read(0, 0o310); err != nil {
		t.Fatalf("read after restore failed: %v", err)
	}
}

func TestSimSerialWordFault(t *testing.T) {
	s := NewSimSerial()
	s.Set(0, 0o310, 850)
	s.Set(0, 0o311, 920)

	s.FailWord(0, 0o310, Timeout)
	if _, err := s.Read(0, 0o310); err == nil {
		t.Fatal("failed word returned data")
	}
	if _, err := s.Read(0, 0o311); err != nil {
		t.Fatalf("unrelated word failed: %v", err)
	}

	// Setting the word again clears the fault.
	s.Set(0, 0o310, 851)
	w, err := s.Read(0, 0o310)
	if err != nil || w.Data != 851 {
		t.Fatalf("read after re-set = %+v, %v", w, err)
	}
}

func TestSimMux(t *testing.T) {
	m := NewSimMux()

	if _, err := m.ReadSubaddress(5); err == nil {
		t.Fatal("empty mux returned data")
	}

	m.SetWord(5, 0, 1200)
	m.SetWord(5, 1, 900)
	msg, err := m.ReadSubaddress(5)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Data[0] != 1200 || msg.Data[1] != 900 {
		t.Fatalf("message = %v", msg.Data[:2])
	}

	m.Fail(5, Parity)
	if _, err := m.ReadSubaddress(5); err == nil {
		t.Fatal("failed subaddress returned data")
	}
}

func TestErrorKindStrings(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{Hardware, "hardware"},
		{Timeout, "timeout"},
		{Parity, "parity"},
		{NoData, "no data"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
