// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package protocol

import "github.com/tomtom215/geochat/internal/models"

// Raw is an already encoded frame. Peers write it unchanged, which lets a
// broadcast encode a new_message frame once for all recipients.
type Raw []byte

// ConnectedFrame confirms a connect and carries the assigned ClientID.
type ConnectedFrame struct {
	Type     Type            `json:"type"`
	ClientID models.ClientID `json:"client_id"`
}

// UsersInRangeFrame lists the sessions near the caller.
type UsersInRangeFrame struct {
	Type  Type                `json:"type"`
	Users []models.NearbyUser `json:"users"`
}

// NewMessageFrame delivers one chat message to a recipient.
type NewMessageFrame struct {
	Type    Type               `json:"type"`
	Message models.ChatMessage `json:"message"`
}

// MessagesHistoryFrame answers a get_history_messages request.
type MessagesHistoryFrame struct {
	Type     Type                 `json:"type"`
	Messages []models.ChatMessage `json:"messages"`
}

// ErrorFrame reports a failure to the offending connection.
type ErrorFrame struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Connected builds a connected frame.
func Connected(id models.ClientID) ConnectedFrame {
	return ConnectedFrame{Type: TypeConnected, ClientID: id}
}

// UsersInRange builds a users_in_range frame. A nil list encodes as [].
func UsersInRange(users []models.NearbyUser) UsersInRangeFrame {
	if users == nil {
		users = []models.NearbyUser{}
	}
	return UsersInRangeFrame{Type: TypeUsersInRange, Users: users}
}

// NewMessage builds a new_message frame.
func NewMessage(msg models.ChatMessage) NewMessageFrame {
	return NewMessageFrame{Type: TypeNewMessage, Message: msg}
}

// MessagesHistory builds a messages_history frame. A nil list encodes as [].
func MessagesHistory(msgs []models.ChatMessage) MessagesHistoryFrame {
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return MessagesHistoryFrame{Type: TypeMessagesHistory, Messages: msgs}
}

// Error builds an error frame.
func Error(message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message}
}

// ErrorFor builds the error frame reported to a client for err.
func ErrorFor(err error) ErrorFrame {
	return Error(UserMessage(err))
}
