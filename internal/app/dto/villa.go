package dto

import (
	"villadesk/internal/domain/villas"
)

type Villa struct {
	ID               string `json:"id"`
	LocationID       string `json:"locationId"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	GuestsLimit      int    `json:"guestsLimit"`
	Bedrooms         int    `json:"bedrooms"`
	Bathrooms        int    `json:"bathrooms"`
	NightlyRateCents int64  `json:"nightlyRateCents"`
	State            string `json:"state"`
}

type VillaList struct {
	Villas []Villa `json:"villas"`
	Total  int     `json:"total"`
}

func MapVilla(v *villas.Villa) Villa {
	return Villa{
		ID:               string(v.ID),
		LocationID:       string(v.LocationID),
		Name:             v.Name,
		Description:      v.Description,
		GuestsLimit:      v.GuestsLimit,
		Bedrooms:         v.Bedrooms,
		Bathrooms:        v.Bathrooms,
		NightlyRateCents: v.NightlyRateCents,
		State:            string(v.State),
	}
}

func MapVillaList(items []*villas.Villa) VillaList {
	list := VillaList{Villas: make([]Villa, 0, len(items))}
	for _, v := range items {
		list.Villas = append(list.Villas, MapVilla(v))
	}
	list.Total = len(list.Villas)
	return list
}
