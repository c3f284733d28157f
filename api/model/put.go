package model

import "encoding/json"

const (
	StateSuccess   = "SUCCESS"
	StateCompleted = "COMPLETED"
)

// Put is the body of a Signal K put request.
type Put struct {
	Value json.RawMessage `json:"value"`
}

// PutResponse mirrors the Signal K put reply.
type PutResponse struct {
	State      string      `json:"state"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message,omitempty"`
	Value      interface{} `json:"value,omitempty"`
}

type Position struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Navigation carries any subset of the vessel readings. COG in radians,
// SOG in m/s.
type Navigation struct {
	Position             *Position `json:"position"`
	CourseOverGroundTrue *float64  `json:"courseOverGroundTrue"`
	SpeedOverGround      *float64  `json:"speedOverGround"`
}
