package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"household/internal/core"
	"household/internal/ports"
)

// Seed is the on-disk shape of a seed file. Records without an id get a
// fresh one on import.
type Seed struct {
	Bills         []core.Bill         `json:"bills"`
	Subscriptions []core.Subscription `json:"subscriptions"`
	Vehicles      []core.Vehicle      `json:"vehicles"`
	// ServiceRecords reference vehicles by id, so those vehicles need one.
	ServiceRecords []core.ServiceRecord `json:"service_records"`
	Passwords      []core.PasswordEntry `json:"passwords"`
	Tasks          []core.Task          `json:"tasks"`
}

// LoadSeedFile reads and decodes a JSON seed file. Unknown fields are
// rejected so a stray "password" value never slips in silently.
func LoadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var seed Seed
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return seed, nil
}

// Import adds every seed record to store and returns how many were added.
func (s Seed) Import(ctx context.Context, store ports.Store) (int, error) {
	n := 0
	for _, b := range s.Bills {
		if b.ID == "" {
			b.ID = core.NewID()
		}
		if err := store.AddBill(ctx, b); err != nil {
			return n, fmt.Errorf("bill %q: %w", b.Name, err)
		}
		n++
	}
	for _, sub := range s.Subscriptions {
		if sub.ID == "" {
			sub.ID = core.NewID()
		}
		if err := store.AddSubscription(ctx, sub); err != nil {
			return n, fmt.Errorf("subscription %q: %w", sub.Name, err)
		}
		n++
	}
	for _, v := range s.Vehicles {
		if v.ID == "" {
			v.ID = core.NewID()
		}
		if err := store.AddVehicle(ctx, v); err != nil {
			return n, fmt.Errorf("vehicle %q: %w", v.Name, err)
		}
		n++
	}
	for _, r := range s.ServiceRecords {
		if r.ID == "" {
			r.ID = core.NewID()
		}
		if err := store.AddServiceRecord(ctx, r); err != nil {
			return n, fmt.Errorf("service record %q: %w", r.Description, err)
		}
		n++
	}
	for _, p := range s.Passwords {
		if p.ID == "" {
			p.ID = core.NewID()
		}
		if err := store.AddPassword(ctx, p); err != nil {
			return n, fmt.Errorf("password entry %q: %w", p.Title, err)
		}
		n++
	}
	for _, t := range s.Tasks {
		if t.ID == "" {
			t.ID = core.NewID()
		}
		if err := store.AddTask(ctx, t); err != nil {
			return n, fmt.Errorf("task %q: %w", t.Title, err)
		}
		n++
	}
	return n, nil
}
