// Package ipc frames the messages the shell passes to the stage processes it
// re-executes for multi-stage pipelines.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Frame tags identify the type of each message.
const (
	TagStage byte = 0x01 // parent→stage: JSON-encoded pipeline.Command
)

// MaxPayload bounds the length a frame header may announce.
const MaxPayload = 16 << 20

var ErrFrameTooLarge = errors.New("frame too large")

// UnexpectedTagError is returned by ReadJSON when the frame carries a tag
// other than the one asked for.
type UnexpectedTagError struct {
	Got, Want byte
}

func (e *UnexpectedTagError) Error() string {
	return fmt.Sprintf("unexpected frame tag 0x%02x, want 0x%02x", e.Got, e.Want)
}

// WriteFrame writes a tagged frame: [tag:1][len:4 big-endian][payload:len].
func WriteFrame(w io.Writer, tag byte, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrFrameTooLarge
	}
	var header [5]byte
	header[0] = tag
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("write frame payload: %w", err)
		}
	}
	return nil
}

// ReadFrame reads one tagged frame, returning the tag and payload.
func ReadFrame(r io.Reader) (byte, []byte, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	tag := header[0]
	length := binary.BigEndian.Uint32(header[1:])
	if length > MaxPayload {
		return 0, nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, nil, fmt.Errorf("read frame payload: %w", err)
		}
	}
	return tag, payload, nil
}

// WriteJSON writes a tagged frame with a JSON-encoded payload.
func WriteJSON(w io.Writer, tag byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	return WriteFrame(w, tag, data)
}

// ReadJSON reads one frame, checks its tag and decodes the payload into v.
func ReadJSON(r io.Reader, want byte, v any) error {
	tag, payload, err := ReadFrame(r)
	if err != nil {
		return err
	}
	if tag != want {
		return &UnexpectedTagError{Got: tag, Want: want}
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("unmarshal frame: %w", err)
	}
	return nil
}
