package api

// Blobs travel as base64 strings, the encoding/json form of []byte.

type EntryResponse struct {
	Key          []byte `json:"key"`
	KeyKind      string `json:"key_kind"`
	KeyDisplay   string `json:"key_display,omitempty"`
	Value        []byte `json:"value"`
	ValueKind    string `json:"value_kind"`
	ValueDisplay string `json:"value_display,omitempty"`
}

type EntriesResponse struct {
	Count   int             `json:"count"`
	Entries []EntryResponse `json:"entries"`
}

// InsertRequest takes each blob either raw or as a literal such as
// "int:42". A literal wins when both are given.
type InsertRequest struct {
	Key          []byte `json:"key,omitempty"`
	KeyLiteral   string `json:"key_literal,omitempty"`
	Value        []byte `json:"value,omitempty"`
	ValueLiteral string `json:"value_literal,omitempty"`
}

type FileRequest struct {
	File string `json:"file" binding:"required"`
}

type SnapshotsResponse struct {
	Names []string `json:"names"`
}

type SnapshotResponse struct {
	Name string `json:"name"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
