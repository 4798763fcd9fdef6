package extract

import (
	"encoding/json"

	"github.com/toricodesthings/engagement-extract-service/internal/analysis"
)

// Document is one uploaded file as received from the boundary.
type Document struct {
	Data      []byte
	MediaType string
	Name      string
}

// Result is the text a single extraction produced. Text may be empty.
type Result struct {
	Text string
	Kind Kind
}

type FileInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Envelope is the only externally visible artifact. A successful envelope
// serializes as {ok, file, text, analysis}; a failed one as {ok:false, error}.
type Envelope struct {
	OK       bool
	File     FileInfo
	Text     string
	Analysis analysis.Record
	Error    string
}

// Failure builds an error envelope.
func Failure(msg string) Envelope {
	return Envelope{OK: false, Error: msg}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if !e.OK {
		return json.Marshal(struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}{OK: false, Error: e.Error})
	}
	return json.Marshal(struct {
		OK       bool            `json:"ok"`
		File     FileInfo        `json:"file"`
		Text     string          `json:"text"`
		Analysis analysis.Record `json:"analysis"`
	}{OK: true, File: e.File, Text: e.Text, Analysis: e.Analysis})
}
