package villas

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrVillaNotFound    = errors.New("villas: villa not found")
	ErrLocationNotFound = errors.New("villas: location not found")
	ErrNameRequired     = errors.New("villas: name is required")
	ErrGuestsLimit      = errors.New("villas: guests limit must be at least 1")
	ErrLocationMissing  = errors.New("villas: owning location is required")
	ErrInvalidState     = errors.New("villas: invalid state transition")
)

type VillaID string
type LocationID string

type VillaState string

const (
	VillaDraft   VillaState = "DRAFT"
	VillaActive  VillaState = "ACTIVE"
	VillaRetired VillaState = "RETIRED"
)

// Location groups villas for administration and blocked-date scoping.
type Location struct {
	ID        LocationID
	Name      string
	Region    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Villa struct {
	ID               VillaID
	LocationID       LocationID
	Name             string
	Description      string
	GuestsLimit      int
	Bedrooms         int
	Bathrooms        int
	NightlyRateCents int64
	State            VillaState
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateVillaParams struct {
	ID               VillaID
	LocationID       LocationID
	Name             string
	Description      string
	GuestsLimit      int
	Bedrooms         int
	Bathrooms        int
	NightlyRateCents int64
	Now              time.Time
}

func NewVilla(params CreateVillaParams) (*Villa, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("villas: id is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(string(params.LocationID)) == "" {
		return nil, ErrLocationMissing
	}
	if params.GuestsLimit < 1 {
		return nil, ErrGuestsLimit
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return &Villa{
		ID:               params.ID,
		LocationID:       params.LocationID,
		Name:             params.Name,
		Description:      params.Description,
		GuestsLimit:      params.GuestsLimit,
		Bedrooms:         params.Bedrooms,
		Bathrooms:        params.Bathrooms,
		NightlyRateCents: params.NightlyRateCents,
		State:            VillaDraft,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}, nil
}

func (v *Villa) Activate(now time.Time) error {
	if v.State == VillaRetired {
		return ErrInvalidState
	}
	v.State = VillaActive
	v.UpdatedAt = now.UTC()
	return nil
}

func (v *Villa) Retire(now time.Time) error {
	if v.State != VillaActive {
		return ErrInvalidState
	}
	v.State = VillaRetired
	v.UpdatedAt = now.UTC()
	return nil
}

type VillaRepository interface {
	ByID(ctx context.Context, id VillaID) (*Villa, error)
	Save(ctx context.Context, villa *Villa) error
	ByLocation(ctx context.Context, id LocationID) ([]*Villa, error)
}

type LocationRepository interface {
	ByID(ctx context.Context, id LocationID) (*Location, error)
	Save(ctx context.Context, location *Location) error
	All(ctx context.Context) ([]*Location, error)
}
