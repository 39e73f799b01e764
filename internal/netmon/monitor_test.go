package netmon

import (
	"testing"
	"time"
)

func TestStaticNotifiesOnlyOnChange(t *testing.T) {
	m := NewStatic(true)
	var calls []bool
	m.Subscribe(func(online bool) { calls = append(calls, online) })

	m.SetOnline(true)
	if len(calls) != 0 {
		t.Fatalf("expected no notification without a change, got %v", calls)
	}

	m.SetOnline(false)
	m.SetOnline(false)
	m.SetOnline(true)
	if len(calls) != 2 || calls[0] != false || calls[1] != true {
		t.Fatalf("unexpected notifications: %v", calls)
	}
	if !m.Online() {
		t.Fatalf("expected online after final flip")
	}
}

func TestProberNotifiesSubscribersOnChange(t *testing.T) {
	p := NewProber("127.0.0.1:1", time.Hour)
	defer p.Close()

	ch := make(chan bool, 8)
	p.Subscribe(func(online bool) { ch <- online })

	p.setOnline(true)
	p.setOnline(false)

	deadline := time.After(time.Second)
	for {
		select {
		case online := <-ch:
			if !online {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for offline notification")
		}
	}
}

func TestProberCloseIsIdempotent(t *testing.T) {
	p := NewProber("127.0.0.1:1", 0)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
