package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	ErrUnknownCodec  = errors.New("unknown codec")
	ErrEmptyMessage  = errors.New("empty message")
	ErrMissingType   = errors.New("message type is missing")
	ErrEmptyEnvelope = errors.New("envelope type is empty")
)

// Envelope はワイヤ上のメッセージ {type, payload} です。Payloadはコーデック依存の未デコードバイト列です。
type Envelope struct {
	Type    string
	Payload []byte
}

// Codec はEnvelopeのエンコード/デコードを担当します。
type Codec interface {
	Name() string
	// Binary はwebsocketのバイナリフレームで送るべきかを返します。
	Binary() bool
	Encode(msgType string, payload any) ([]byte, error)
	Decode(data []byte) (Envelope, error)
	DecodePayload(env Envelope, v any) error
}

// NewCodec は名前からCodecを選びます。
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type JSONCodec struct{}

type jsonEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(msgType string, payload any) ([]byte, error) {
	if msgType == "" {
		return nil, ErrEmptyEnvelope
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return json.Marshal(jsonEnvelope{Type: msgType, Payload: body})
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, ErrEmptyMessage
	}
	var e jsonEnvelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, err
	}
	if e.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return Envelope{Type: e.Type, Payload: e.Payload}, nil
}

func (JSONCodec) DecodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 || bytes.Equal(env.Payload, []byte("null")) {
		return nil
	}
	return json.Unmarshal(env.Payload, v)
}

// MsgpackCodec はペイロードのフィールド名をjsonタグから取るので、JSONと同じキーで往復します。
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type    string             `msgpack:"type"`
	Payload msgpack.RawMessage `msgpack:"payload,omitempty"`
}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(msgType string, payload any) ([]byte, error) {
	if msgType == "" {
		return nil, ErrEmptyEnvelope
	}
	var body bytes.Buffer
	enc := msgpack.NewEncoder(&body)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return msgpack.Marshal(&msgpackEnvelope{Type: msgType, Payload: body.Bytes()})
}

func (MsgpackCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, ErrEmptyMessage
	}
	var e msgpackEnvelope
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return Envelope{}, err
	}
	if e.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return Envelope{Type: e.Type, Payload: e.Payload}, nil
}

func (MsgpackCodec) DecodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 || (len(env.Payload) == 1 && env.Payload[0] == msgpcode.Nil) {
		return nil
	}
	dec := msgpack.NewDecoder(bytes.NewReader(env.Payload))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
