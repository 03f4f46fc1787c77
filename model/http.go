package model

import "time"

type PlayRequestBody struct {
	Progression Progression   `json:"progression"`
	Tempo       int           `json:"tempo"`
	Tonic       string        `json:"tonic"`
	Mode        string        `json:"mode"`
	Drums       *DrumSettings `json:"drums,omitempty"`
}

type PlayResponse struct {
	Status    string `json:"status"`
	SessionId string `json:"session_id,omitempty"`
}

type NotesResponse struct {
	// ints rather than Notes so the JSON is an array, not base64
	Notes []int  `json:"notes"`
	Key   string `json:"key"`
}

type StatusResponse struct {
	State     string `json:"state"`
	Synth     string `json:"synth"`
	SessionId string `json:"session_id,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

type PatternsResponse struct {
	Patterns []string `json:"patterns"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// SessionRecord is what the history store keeps about one playback session.
type SessionRecord struct {
	Id       string       `json:"id"`
	Symbols  []string     `json:"symbols"`
	Tempo    int          `json:"tempo"`
	Key      Key          `json:"key"`
	Drums    DrumSettings `json:"drums"`
	Outcome  string       `json:"outcome"`
	Error    string       `json:"error,omitempty"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
}
