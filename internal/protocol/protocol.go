package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"soularena/internal/engine"
)

var ErrUnknownKind = errors.New("unknown message kind")

type Kind string

const (
	KindJoin        Kind = "JOIN"
	KindWelcome     Kind = "WELCOME"
	KindSync        Kind = "SYNC"
	KindActionBuy   Kind = "ACTION_BUY"
	KindActionReady Kind = "ACTION_READY"
)

// Envelope is the wire shape every topic carries.
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type JoinPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BuyPayload struct {
	PlayerID string `json:"playerId"`
	ItemID   string `json:"itemId"`
}

type ReadyPayload struct {
	PlayerID string `json:"playerId"`
}

// Message is the decoded form of an envelope; Kind selects which payload
// field is populated. WELCOME and SYNC carry the full game state.
type Message struct {
	Kind  Kind
	Join  JoinPayload
	Buy   BuyPayload
	Ready ReadyPayload
	State engine.State
}

func EncodeJoin(id, name string) ([]byte, error) {
	return encode(KindJoin, JoinPayload{ID: id, Name: name})
}

func EncodeWelcome(s engine.State) ([]byte, error) {
	return encode(KindWelcome, s)
}

func EncodeSync(s engine.State) ([]byte, error) {
	return encode(KindSync, s)
}

func EncodeBuy(playerID, itemID string) ([]byte, error) {
	return encode(KindActionBuy, BuyPayload{PlayerID: playerID, ItemID: itemID})
}

func EncodeReady(playerID string) ([]byte, error) {
	return encode(KindActionReady, ReadyPayload{PlayerID: playerID})
}

func encode(kind Kind, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return json.Marshal(Envelope{Type: kind, Payload: raw})
}

// Decode parses one envelope. Malformed input returns an error; the
// caller drops the message and logs, it never crashes the handler loop.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, fmt.Errorf("decode envelope: %w", err)
	}

	m := Message{Kind: env.Type}
	var err error
	switch env.Type {
	case KindJoin:
		err = json.Unmarshal(env.Payload, &m.Join)
	case KindWelcome, KindSync:
		err = json.Unmarshal(env.Payload, &m.State)
	case KindActionBuy:
		err = json.Unmarshal(env.Payload, &m.Buy)
	case KindActionReady:
		err = json.Unmarshal(env.Payload, &m.Ready)
	default:
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
	if err != nil {
		return Message{}, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return m, nil
}
