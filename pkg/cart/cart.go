// Package cart holds the client-side cart state: an ordered list of line
// items keyed by item id, mirrored to durable storage on every change.
// Totals are always derived from the current items, never stored.
package cart

import (
	"encoding/json"
	"log"
	"sync"
)

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Storage is the durable mirror of the cart (a local-storage analog).
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is the cart state container. Create one at app start and keep it
// for the life of the UI; it rehydrates from storage on creation.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage Storage
}

// New rehydrates a cart from storage. Missing, unreadable, or corrupt
// state yields an empty cart; a broken mirror never breaks the app.
func New(storage Storage) *Store {
	s := &Store{storage: storage}
	if storage == nil {
		return s
	}

	data, err := storage.Load()
	if err != nil || len(data) == 0 {
		return s
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("discarding unparsable cart state: %v", err)
		return s
	}
	s.items = items
	return s
}

// Add merges qty into an existing line with the same id, or appends a new
// line. A non-positive qty counts as 1, matching a bare "add to cart".
func (s *Store) Add(item Item, qty int) {
	if item.ID == "" {
		log.Println("ignoring cart add without item id")
		return
	}
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += qty
			if item.Price > 0 {
				s.items[i].Price = item.Price
			}
			s.persist()
			return
		}
	}

	item.Quantity = qty
	s.items = append(s.items, item)
	s.persist()
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.persist()
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *Store) UpdateQuantity(id string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(id)
		s.persist()
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = qty
			break
		}
	}
	s.persist()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, it := range s.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

func (s *Store) removeLocked(id string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// persist mirrors state to storage; a failed save never fails the
// mutation, the in-memory cart stays authoritative for the session.
func (s *Store) persist() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("marshal cart state: %v", err)
		return
	}
	if err := s.storage.Save(data); err != nil {
		log.Printf("save cart state: %v", err)
	}
}
