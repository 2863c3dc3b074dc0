// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package protocol implements the Geochat WebSocket wire format: decoding
// inbound frames into a closed set of events, building outbound frames, and
// the error taxonomy shared by the chat and transport layers.
//
// Every frame is a JSON object with a "type" member. Decode rejects unknown
// types and missing or out-of-range fields at the boundary, so handlers only
// ever see complete events.
package protocol

import (
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geochat/internal/validation"
)

type envelope struct {
	Type *string `json:"type"`
}

var errMissingType = errors.New("missing type")

// Decode parses one inbound frame.
//
// Errors:
//   - *DecodeError: not a JSON object, missing "type", or mistyped members
//   - *UnknownTypeError: "type" is not one of the six inbound types
//   - *ValidationError: first missing or invalid required field
func Decode(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if env.Type == nil {
		return nil, &DecodeError{Err: errMissingType}
	}

	var ev Event
	switch Type(*env.Type) {
	case TypeConnect:
		ev = &Connect{}
	case TypeUpdateUser:
		ev = &UpdateUser{}
	case TypeSentLocation:
		ev = &SentLocation{}
	case TypeSentMessage:
		ev = &SentMessage{}
	case TypeGetHistoryMessages:
		ev = &HistoryRequest{}
	case TypeDisconnect:
		ev = &Disconnect{}
	default:
		return nil, &UnknownTypeError{Type: *env.Type}
	}

	if err := json.Unmarshal(frame, ev); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if verr := validation.ValidateStruct(ev); verr != nil {
		first := verr.First()
		return nil, &ValidationError{Field: first.Field(), Missing: first.Missing()}
	}

	return ev, nil
}

// Encode marshals an outbound frame.
func Encode(frame any) ([]byte, error) {
	return json.Marshal(frame)
}
