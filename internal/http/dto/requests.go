package dto

import (
	"bytes"
	"encoding/json"
)

// Requests accept JSON and urlencoded forms, so every field carries both tags.

type UpsertCardRequest struct {
	UID       string `json:"uid" form:"uid"`
	Name      string `json:"name" form:"name"`
	Division  string `json:"division" form:"division"`
	Mask      Text   `json:"mask" form:"mask"`
	UpdatedAt string `json:"updated_at" form:"updated_at"`
}

type RemoveCardRequest struct {
	UID       string `json:"uid" form:"uid"`
	UpdatedAt string `json:"updated_at" form:"updated_at"` // accepted, not stored
}

type DeviceEventRequest struct {
	UID    string `json:"uid" form:"uid"`
	Action string `json:"action" form:"action"`
	Relays *int   `json:"relays,omitempty" form:"relays"`
}

// Text keeps a field's raw text so the service can validate it. JSON strings
// are unquoted, numbers and any other literal are kept as written.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	*t = Text(b)
	return nil
}

func (t *Text) UnmarshalText(b []byte) error {
	*t = Text(b)
	return nil
}
