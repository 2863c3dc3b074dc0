// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package protocol

import (
	"errors"
	"fmt"

	"github.com/tomtom215/geochat/internal/models"
)

// ErrPeerClosed is returned by peers that can no longer accept frames.
var ErrPeerClosed = errors.New("peer closed")

// ErrSendBufferFull is returned by peers whose outbound queue is full.
var ErrSendBufferFull = errors.New("send buffer full")

// DecodeError is returned for frames that are not a JSON object with a string
// "type" member, or whose members have the wrong JSON types. Fatal.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnknownTypeError is returned for a well-formed frame with an unrecognised type.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "Unknown message type: " + e.Type
}

// ValidationError reports a required field that is absent, or present with an
// out-of-range value.
type ValidationError struct {
	Field   string
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return "Missing " + e.Field
	}
	return "Invalid " + e.Field
}

// NotFoundError is returned when an event references a ClientID that has no session.
type NotFoundError struct {
	ClientID models.ClientID
}

func (e *NotFoundError) Error() string {
	return "Client not found"
}

// TransportError wraps a failure to hand a frame to a peer.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError is returned when a connection sends frames faster than allowed.
type RateLimitError struct{}

func (e *RateLimitError) Error() string {
	return "Rate limit exceeded"
}

// IsFatal reports whether err must terminate the connection.
func IsFatal(err error) bool {
	var decodeErr *DecodeError
	var transportErr *TransportError
	return errors.As(err, &decodeErr) || errors.As(err, &transportErr)
}

// UserMessage returns the text sent to the client in an error frame.
func UserMessage(err error) string {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return "Invalid message format"
	}

	var (
		unknownErr    *UnknownTypeError
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		rateErr       *RateLimitError
	)
	switch {
	case errors.As(err, &unknownErr):
		return unknownErr.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &rateErr):
		return rateErr.Error()
	default:
		return "Internal error"
	}
}

// Kind returns a short label for err, used as a metrics label.
func Kind(err error) string {
	var (
		decodeErr     *DecodeError
		unknownErr    *UnknownTypeError
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		transportErr  *TransportError
		rateErr       *RateLimitError
	)
	switch {
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &unknownErr):
		return "unknown_type"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &rateErr):
		return "rate_limit"
	default:
		return "internal"
	}
}
