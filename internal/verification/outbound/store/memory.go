package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/shandysiswandi/ecclesia/internal/pkg/clock"
	"github.com/shandysiswandi/ecclesia/internal/verification/entity"
)

const stripeCount = 64

type stripe struct {
	mu      sync.Mutex
	records map[string]entity.Challenge
}

// Memory keeps challenges in process, sharded over striped mutexes so that
// different emails rarely contend. It does not survive restarts and is not
// shared between instances.
type Memory struct {
	stripes   [stripeCount]stripe
	clock     clock.Clocker
	retention time.Duration
}

func NewMemory(clk clock.Clocker, retention time.Duration) *Memory {
	m := &Memory{clock: clk, retention: retention}
	for i := range m.stripes {
		m.stripes[i].records = make(map[string]entity.Challenge)
	}
	return m
}

func (m *Memory) stripe(email string) *stripe {
	h := fnv.New32a()
	h.Write([]byte(email))
	return &m.stripes[h.Sum32()%stripeCount]
}

func (m *Memory) Get(ctx context.Context, email string) (*entity.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := m.stripe(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[email]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) Set(ctx context.Context, c entity.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := m.stripe(c.Email)
	s.mu.Lock()
	s.records[c.Email] = c
	s.mu.Unlock()

	return nil
}

func (m *Memory) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := m.stripe(email)
	s.mu.Lock()
	delete(s.records, email)
	s.mu.Unlock()

	return nil
}

func (m *Memory) Mutate(ctx context.Context, email string, fn MutateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := m.stripe(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *entity.Challenge
	if c, ok := s.records[email]; ok {
		current = &c
	}

	switch fn(current) {
	case entity.DecisionSave:
		if current != nil {
			s.records[email] = *current
		}
	case entity.DecisionDelete:
		delete(s.records, email)
	}

	return nil
}

// Sweep drops records whose expiry plus retention has passed and returns how many were removed.
func (m *Memory) Sweep(ctx context.Context) int {
	cutoff := m.clock.Now().Add(-m.retention)

	removed := 0
	for i := range m.stripes {
		if ctx.Err() != nil {
			break
		}

		s := &m.stripes[i]
		s.mu.Lock()
		for email, c := range s.records {
			if c.Expired(cutoff) {
				delete(s.records, email)
				removed++
			}
		}
		s.mu.Unlock()
	}

	return removed
}

// Len counts stored records.
func (m *Memory) Len() int {
	n := 0
	for i := range m.stripes {
		m.stripes[i].mu.Lock()
		n += len(m.stripes[i].records)
		m.stripes[i].mu.Unlock()
	}
	return n
}
