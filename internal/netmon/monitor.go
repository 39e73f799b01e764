package netmon

import (
	"net"
	"sync"
	"time"
)

// Monitor is the connectivity capability handed to the shell. The shell only
// reads the current state and reacts to change notifications; no navigation
// decision depends on it.
type Monitor interface {
	Online() bool
	Subscribe(fn func(online bool))
	Close() error
}

// Prober reports connectivity by periodically dialing a well-known address.
type Prober struct {
	addr     string
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	online bool
	subs   []func(bool)
	done   chan struct{}
	once   sync.Once
}

func NewProber(addr string, interval time.Duration) *Prober {
	if addr == "" {
		addr = "1.1.1.1:53"
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	p := &Prober{
		addr:     addr,
		interval: interval,
		timeout:  3 * time.Second,
		online:   true,
		done:     make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Prober) loop() {
	p.setOnline(p.probe())
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.setOnline(p.probe())
		case <-p.done:
			return
		}
	}
}

func (p *Prober) probe() bool {
	conn, err := net.DialTimeout("tcp", p.addr, p.timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (p *Prober) setOnline(online bool) {
	p.mu.Lock()
	changed := p.online != online
	p.online = online
	subs := make([]func(bool), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range subs {
		fn(online)
	}
}

func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

func (p *Prober) Subscribe(fn func(online bool)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *Prober) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

// Static is a fixed-state monitor for tests and demos.
type Static struct {
	mu     sync.Mutex
	online bool
	subs   []func(bool)
}

func NewStatic(online bool) *Static {
	return &Static{online: online}
}

func (s *Static) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *Static) Subscribe(fn func(online bool)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SetOnline flips the state and notifies subscribers on change.
func (s *Static) SetOnline(online bool) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	subs := make([]func(bool), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range subs {
		fn(online)
	}
}

func (s *Static) Close() error { return nil }
