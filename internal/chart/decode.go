package chart

import (
	"bytes"
	"encoding/json"
	"image"
	"io"

	// Decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const maxDetailLength = 240

func decodeImage(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// serverDetail extracts the message of a JSON error body. The Flask server
// answers {"error": "..."}, the FastAPI server {"detail": ...} where detail is
// either a string or a list of validation errors.
func serverDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return truncate(payload.Error)
	}
	if len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return truncate(s)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, payload.Detail); err != nil {
		return ""
	}
	return truncate(buf.String())
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailLength {
		return s
	}
	return string(r[:maxDetailLength]) + "…"
}
