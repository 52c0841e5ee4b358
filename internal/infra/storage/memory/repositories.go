package memory

import (
	"context"
	"sync"

	domainschedule "villadesk/internal/domain/schedule"
	domainvillas "villadesk/internal/domain/villas"
)

// VillaRepository is an in-memory implementation for dev and tests.
type VillaRepository struct {
	mu    sync.RWMutex
	items map[domainvillas.VillaID]*domainvillas.Villa
}

func NewVillaRepository() *VillaRepository {
	return &VillaRepository{items: make(map[domainvillas.VillaID]*domainvillas.Villa)}
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvillas.VillaID) (*domainvillas.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	villa, ok := r.items[id]
	if !ok {
		return nil, domainvillas.ErrVillaNotFound
	}
	return villa, nil
}

func (r *VillaRepository) Save(ctx context.Context, villa *domainvillas.Villa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[villa.ID] = villa
	return nil
}

func (r *VillaRepository) ByLocation(ctx context.Context, id domainvillas.LocationID) ([]*domainvillas.Villa, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainvillas.Villa
	for _, villa := range r.items {
		if id != "" && villa.LocationID != id {
			continue
		}
		out = append(out, villa)
	}
	return out, nil
}

type LocationRepository struct {
	mu    sync.RWMutex
	items map[domainvillas.LocationID]*domainvillas.Location
}

func NewLocationRepository() *LocationRepository {
	return &LocationRepository{items: make(map[domainvillas.LocationID]*domainvillas.Location)}
}

func (r *LocationRepository) ByID(ctx context.Context, id domainvillas.LocationID) (*domainvillas.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	location, ok := r.items[id]
	if !ok {
		return nil, domainvillas.ErrLocationNotFound
	}
	return location, nil
}

func (r *LocationRepository) Save(ctx context.Context, location *domainvillas.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[location.ID] = location
	return nil
}

func (r *LocationRepository) All(ctx context.Context) ([]*domainvillas.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainvillas.Location, 0, len(r.items))
	for _, location := range r.items {
		out = append(out, location)
	}
	return out, nil
}

// ScheduleRepository keeps blocked-date records in memory. Reads copy the
// record set so snapshot construction never observes a partial write.
type ScheduleRepository struct {
	mu    sync.RWMutex
	items map[domainschedule.RecordID]domainschedule.BlockedDateRecord
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{items: make(map[domainschedule.RecordID]domainschedule.BlockedDateRecord)}
}

func (r *ScheduleRepository) ByID(ctx context.Context, id domainschedule.RecordID) (domainschedule.BlockedDateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[id]
	if !ok {
		return domainschedule.BlockedDateRecord{}, domainschedule.ErrRecordNotFound
	}
	return rec, nil
}

func (r *ScheduleRepository) Save(ctx context.Context, record domainschedule.BlockedDateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[record.ID] = record
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id domainschedule.RecordID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainschedule.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ScheduleRepository) All(ctx context.Context) ([]domainschedule.BlockedDateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainschedule.BlockedDateRecord, 0, len(r.items))
	for _, rec := range r.items {
		out = append(out, rec)
	}
	return out, nil
}
