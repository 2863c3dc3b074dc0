// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package protocol

import (
	"github.com/tomtom215/geochat/internal/geo"
	"github.com/tomtom215/geochat/internal/models"
)

// Type is the value of the "type" discriminator of a frame.
type Type string

// Inbound event types.
const (
	TypeConnect            Type = "connect"
	TypeUpdateUser         Type = "update_user"
	TypeSentLocation       Type = "sent_location"
	TypeSentMessage        Type = "sent_message"
	TypeGetHistoryMessages Type = "get_history_messages"
	TypeDisconnect         Type = "disconnect"
)

// Outbound frame types.
const (
	TypeConnected       Type = "connected"
	TypeUsersInRange    Type = "users_in_range"
	TypeNewMessage      Type = "new_message"
	TypeMessagesHistory Type = "messages_history"
	TypeError           Type = "error"
)

// Event is one decoded inbound frame. The set of implementations is closed:
// Connect, UpdateUser, SentLocation, SentMessage, HistoryRequest and Disconnect.
type Event interface {
	Type() Type
	sealed()
}

// Struct field order below is the order in which missing fields are reported.

// Connect registers a username at a position.
type Connect struct {
	Username string   `json:"username" validate:"required"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
}

// UpdateUser changes the username and position of a client.
type UpdateUser struct {
	ClientID string   `json:"client_id" validate:"required"`
	Username string   `json:"username" validate:"required"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
}

// SentLocation reports a new position for a client.
type SentLocation struct {
	ClientID string   `json:"client_id" validate:"required"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
}

// SentMessage is a chat message sent from a position.
type SentMessage struct {
	ClientID string   `json:"client_id" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
}

// HistoryRequest asks for every stored message near a point.
type HistoryRequest struct {
	ClientID string   `json:"client_id" validate:"required"`
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lon      *float64 `json:"lon" validate:"required,longitude"`
}

// Disconnect clears a client's session without closing the transport.
type Disconnect struct {
	ClientID string `json:"client_id" validate:"required"`
}

func (*Connect) Type() Type        { return TypeConnect }
func (*UpdateUser) Type() Type     { return TypeUpdateUser }
func (*SentLocation) Type() Type   { return TypeSentLocation }
func (*SentMessage) Type() Type    { return TypeSentMessage }
func (*HistoryRequest) Type() Type { return TypeGetHistoryMessages }
func (*Disconnect) Type() Type     { return TypeDisconnect }

func (*Connect) sealed()        {}
func (*UpdateUser) sealed()     {}
func (*SentLocation) sealed()   {}
func (*SentMessage) sealed()    {}
func (*HistoryRequest) sealed() {}
func (*Disconnect) sealed()     {}

// Point returns the reported position. Only valid after Decode succeeded.
func (e *Connect) Point() geo.Point { return point(e.Lat, e.Lon) }

// Point returns the reported position. Only valid after Decode succeeded.
func (e *UpdateUser) Point() geo.Point { return point(e.Lat, e.Lon) }

// Point returns the reported position. Only valid after Decode succeeded.
func (e *SentLocation) Point() geo.Point { return point(e.Lat, e.Lon) }

// Point returns the position the message was sent from.
func (e *SentMessage) Point() geo.Point { return point(e.Lat, e.Lon) }

// Point returns the query position.
func (e *HistoryRequest) Point() geo.Point { return point(e.Lat, e.Lon) }

// ID returns the client the event refers to.
func (e *UpdateUser) ID() models.ClientID { return models.ClientID(e.ClientID) }

// ID returns the client the event refers to.
func (e *SentLocation) ID() models.ClientID { return models.ClientID(e.ClientID) }

// ID returns the client the event refers to.
func (e *SentMessage) ID() models.ClientID { return models.ClientID(e.ClientID) }

// ID returns the client the event refers to.
func (e *HistoryRequest) ID() models.ClientID { return models.ClientID(e.ClientID) }

// ID returns the client the event refers to.
func (e *Disconnect) ID() models.ClientID { return models.ClientID(e.ClientID) }

func point(lat, lon *float64) geo.Point {
	var p geo.Point
	if lat != nil {
		p.Lat = *lat
	}
	if lon != nil {
		p.Lon = *lon
	}
	return p
}
