// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package weather

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store errors.
var (
	ErrNotFound = errors.New("forecast not found")
	ErrExists   = errors.New("forecast already exists")
)

// Store persists forecasts.
type Store interface {
	List(ctx context.Context, city string) ([]Forecast, error)
	Get(ctx context.Context, id uuid.UUID) (Forecast, error)
	Add(ctx context.Context, f Forecast) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore is an in-memory [Store]. A city has at most one forecast
// per date. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]Forecast
	byDay map[string]uuid.UUID
	order []uuid.UUID
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[uuid.UUID]Forecast),
		byDay: make(map[string]uuid.UUID),
	}
}

func dayKey(city, date string) string {
	return strings.ToLower(city) + "|" + date
}

// List returns stored forecasts in insertion order, filtered by city when
// city is not empty.
func (s *MemoryStore) List(_ context.Context, city string) ([]Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Forecast, 0, len(s.order))
	for _, id := range s.order {
		f := s.byID[id]
		if city != "" && !strings.EqualFold(f.City, city) {
			continue
		}
		out = append(out, f)
	}

	return out, nil
}

// Get returns the forecast with id or [ErrNotFound].
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.byID[id]
	if !ok {
		return Forecast{}, ErrNotFound
	}

	return f, nil
}

// Add stores f or returns [ErrExists] when the city already has a forecast
// for that date.
func (s *MemoryStore) Add(_ context.Context, f Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(f.City, f.Date)
	if _, ok := s.byDay[key]; ok {
		return ErrExists
	}
	if _, ok := s.byID[f.ID]; ok {
		return ErrExists
	}

	s.byID[f.ID] = f
	s.byDay[key] = f.ID
	s.order = append(s.order, f.ID)

	return nil
}

// Delete removes the forecast with id or returns [ErrNotFound].
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}

	delete(s.byID, id)
	delete(s.byDay, dayKey(f.City, f.Date))
	s.order = slices.DeleteFunc(s.order, func(other uuid.UUID) bool { return other == id })

	return nil
}
