package models

import "time"

// Relay mask bounds: one bit per relay, eight relays.
const (
	MaskMin = 0
	MaskMax = 255
)

type Card struct {
	UID       string     `json:"uid"`
	Name      string     `json:"name"`
	Division  string     `json:"division"`
	Mask      int        `json:"mask"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func IsValidMask(mask int) bool {
	return mask >= MaskMin && mask <= MaskMax
}
