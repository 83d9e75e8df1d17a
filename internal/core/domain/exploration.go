package domain

// RevealEvent is a circular ground area marked as visited.
type RevealEvent struct {
	Point        GeoPoint `json:"point"`
	RadiusMeters float64  `json:"radius_meters"`
	Sequence     int      `json:"sequence"`
}

// RecordResult is the outcome of offering a coordinate sample to the reveal store.
// A zero NewAreaSquareMeters with Accepted=true is a normal fully-overlapping reveal.
type RecordResult struct {
	Accepted            bool         `json:"accepted"`
	NewAreaSquareMeters float64      `json:"new_area_m2"`
	Event               *RevealEvent `json:"event,omitempty"`
}

// Cutout is one transparent hole in the fog mask, in mask pixel space.
type Cutout struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	RadiusPx float64 `json:"radius_px"`
}

// FogMask is an opaque covering with circular cutouts. The mask is larger than
// the viewport; the caller places its top-left at (-OffsetX, -OffsetY).
type FogMask struct {
	WidthPx  int      `json:"width_px"`
	HeightPx int      `json:"height_px"`
	OffsetX  float64  `json:"offset_x"`
	OffsetY  float64  `json:"offset_y"`
	Cutouts  []Cutout `json:"cutouts"`
}

// ProgressionState is the only persisted progression value.
type ProgressionState struct {
	TotalXP float64 `json:"xp"`
}

// ProgressSnapshot is derived from ProgressionState.TotalXP on demand.
type ProgressSnapshot struct {
	Level          int     `json:"level"`
	Title          string  `json:"title"`
	XPIntoLevel    float64 `json:"xp_into_level"`
	XPForNextLevel float64 `json:"xp_for_next_level"`
	Percent        float64 `json:"percent"`
	TotalXP        float64 `json:"total_xp"`
}

// LevelUp is emitted once per level crossed.
type LevelUp struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Observation is the combined result of feeding one sample through the engine.
type Observation struct {
	Record    RecordResult     `json:"record"`
	Progress  ProgressSnapshot `json:"progress"`
	LevelUps  []LevelUp        `json:"level_ups,omitempty"`
	Persisted bool             `json:"persisted"`
}
