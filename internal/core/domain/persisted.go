package domain

import (
	"encoding/json"
	"fmt"
)

// Durable key names shared by key-value backends.
const (
	RevealsKey  = "revealed"
	ProgressKey = "leveling_progress"
)

// StoredReveal is the durable layout of one reveal. Sequence is positional.
type StoredReveal struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters float64 `json:"radius_meters"`
}

// EncodeReveals serializes the log as an ordered JSON array.
func EncodeReveals(events []RevealEvent) ([]byte, error) {
	out := make([]StoredReveal, len(events))
	for i, e := range events {
		out[i] = StoredReveal{Lat: e.Point.Lat, Lon: e.Point.Lon, RadiusMeters: e.RadiusMeters}
	}
	return json.Marshal(out)
}

// DecodeReveals parses a log written by EncodeReveals. Sequences are assigned
// from array position.
func DecodeReveals(data []byte) ([]RevealEvent, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var stored []StoredReveal
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode reveals: %w", err)
	}
	events := make([]RevealEvent, len(stored))
	for i, s := range stored {
		events[i] = RevealEvent{
			Point:        GeoPoint{Lat: s.Lat, Lon: s.Lon},
			RadiusMeters: s.RadiusMeters,
			Sequence:     i + 1,
		}
	}
	return events, nil
}
