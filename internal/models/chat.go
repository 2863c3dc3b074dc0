// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/geochat/internal/geo"
)

// ClientID identifies one logical chat participant. It is minted once per
// distinct username and reused while a session with that username exists.
type ClientID string

// NewClientID mints a random (version 4) ClientID.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ClientID) String() string {
	return string(id)
}

// Session is a participant's current username and last reported position.
// A Session exists only while the participant is locatable.
type Session struct {
	ClientID ClientID `json:"client_id"`
	Username string   `json:"username"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
}

// Point returns the session position.
func (s Session) Point() geo.Point {
	return geo.Point{Lat: s.Lat, Lon: s.Lon}
}

// NearbyUser is one entry of a users_in_range reply.
type NearbyUser struct {
	ClientID ClientID `json:"client_id"`
	Username string   `json:"username"`
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
}

// ChatMessage is a stored chat message. Values are never modified after
// creation; the history store hands out copies.
type ChatMessage struct {
	ClientID  ClientID `json:"client_id"`
	Username  string   `json:"username"`
	Content   string   `json:"content"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Timestamp int64    `json:"timestamp"` // Unix milliseconds
}

// Point returns the position the message was sent from.
func (m ChatMessage) Point() geo.Point {
	return geo.Point{Lat: m.Lat, Lon: m.Lon}
}

// SentAt returns the message timestamp as a time.Time.
func (m ChatMessage) SentAt() time.Time {
	return time.UnixMilli(m.Timestamp)
}
