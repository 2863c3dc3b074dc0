// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package registry holds the process-wide chat state: the session registry,
// each session's outbound peer, and the append-only message history.
//
// All three are guarded by one RWMutex and are only reachable through the
// methods below. A session and its peer live in a single record, so binding or
// removing a connection never leaves the two out of step. Methods that compute
// broadcast recipients return a snapshot of peers; callers send to them after
// the lock is released.
package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/geochat/internal/geo"
	"github.com/tomtom215/geochat/internal/models"
)

// UnknownUsername is assigned to sessions created implicitly by an update
// that carries no username.
const UnknownUsername = "Unknown"

// ErrClientNotFound is returned when an operation requires an existing session.
var ErrClientNotFound = errors.New("client not found")

// Peer is the outbound side of a live connection.
type Peer interface {
	// Send queues frame for delivery without blocking.
	Send(frame any) error
	// ID uniquely identifies the underlying transport connection.
	ID() uint64
}

type entry struct {
	session models.Session
	peer    Peer   // nil while offline
	seq     uint64 // creation order, used to break username ties
}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Sessions int `json:"sessions"`
	Online   int `json:"online"`
	Messages int `json:"messages"`
	Authors  int `json:"authors"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	radius  geo.Radius
	entries map[models.ClientID]*entry
	nextSeq uint64

	history      map[models.ClientID][]models.ChatMessage
	authors      []models.ClientID // first-message order
	messageCount int

	newID func() models.ClientID
}

// New creates an empty registry using radius for every range computation.
func New(radius geo.Radius) *Registry {
	return &Registry{
		radius:  radius,
		entries: make(map[models.ClientID]*entry),
		history: make(map[models.ClientID][]models.ChatMessage),
		newID:   models.NewClientID,
	}
}

// Radius returns the chat radius.
func (r *Registry) Radius() geo.Radius {
	return r.radius
}

// RegisterOrReuse binds peer to the session named username. If a session with
// that username exists its ClientID is reused (the latest connection wins),
// otherwise a new ClientID is minted. The session position is overwritten.
func (r *Registry) RegisterOrReuse(username string, p geo.Point, peer Peer) (id models.ClientID, reused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var match *entry
	for _, e := range r.entries {
		if e.session.Username == username && (match == nil || e.seq < match.seq) {
			match = e
		}
	}

	if match != nil {
		match.session.Lat, match.session.Lon = p.Lat, p.Lon
		match.peer = peer
		return match.session.ClientID, true
	}

	id = r.newID()
	r.insertLocked(models.Session{ClientID: id, Username: username, Lat: p.Lat, Lon: p.Lon}, peer)
	return id, false
}

// UpdateUser overwrites the username and position of id. Unknown ids get a
// new session. A non-nil peer is bound to the session.
func (r *Registry) UpdateUser(id models.ClientID, username string, p geo.Point, peer Peer) (created bool) {
	return r.upsert(id, &username, p, peer)
}

// UpdateLocation overwrites the position of id. Unknown ids get a new session
// named UnknownUsername. A non-nil peer is bound to the session.
func (r *Registry) UpdateLocation(id models.ClientID, p geo.Point, peer Peer) (created bool) {
	return r.upsert(id, nil, p, peer)
}

func (r *Registry) upsert(id models.ClientID, username *string, p geo.Point, peer Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		if username != nil {
			e.session.Username = *username
		}
		e.session.Lat, e.session.Lon = p.Lat, p.Lon
		if peer != nil {
			e.peer = peer
		}
		return false
	}

	name := UnknownUsername
	if username != nil && *username != "" {
		name = *username
	}
	r.insertLocked(models.Session{ClientID: id, Username: name, Lat: p.Lat, Lon: p.Lon}, peer)
	return true
}

func (r *Registry) insertLocked(s models.Session, peer Peer) {
	r.nextSeq++
	r.entries[s.ClientID] = &entry{session: s, peer: peer, seq: r.nextSeq}
}

// UsersInRange returns every session within the radius of p, never including
// exclude (pass "" to exclude nobody). Results are sorted by ClientID.
func (r *Registry) UsersInRange(p geo.Point, exclude models.ClientID) []models.NearbyUser {
	r.mu.RLock()
	users := make([]models.NearbyUser, 0, len(r.entries))
	for id, e := range r.entries {
		if exclude != "" && id == exclude {
			continue
		}
		if r.radius.Contains(p, e.session.Point()) {
			users = append(users, models.NearbyUser{
				ClientID: id,
				Username: e.session.Username,
				Lat:      e.session.Lat,
				Lon:      e.session.Lon,
			})
		}
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ClientID < users[j].ClientID })
	return users
}

// Disconnect removes the session and peer of id. History is kept. Removing
// an unknown id is a no-op.
func (r *Registry) Disconnect(id models.ClientID) (removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Release removes the session of id only if it is still bound to peer. It is
// called when a transport closes, so a newer connection that reused the
// ClientID keeps its session.
func (r *Registry) Release(id models.ClientID, peer Peer) (removed bool) {
	if peer == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.peer == nil || e.peer.ID() != peer.ID() {
		return false
	}
	delete(r.entries, id)
	return true
}

// AppendMessage stores a message from id sent at p and returns it together
// with the peers that should receive it: every other online session within
// the radius of p. ErrClientNotFound is returned, and nothing is stored, when
// id has no session.
func (r *Registry) AppendMessage(id models.ClientID, content string, p geo.Point, now time.Time) (models.ChatMessage, []Peer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.entries[id]
	if !ok {
		return models.ChatMessage{}, nil, ErrClientNotFound
	}

	msg := models.ChatMessage{
		ClientID:  id,
		Username:  sender.session.Username,
		Content:   content,
		Lat:       p.Lat,
		Lon:       p.Lon,
		Timestamp: now.UnixMilli(),
	}

	if _, seen := r.history[id]; !seen {
		r.authors = append(r.authors, id)
	}
	r.history[id] = append(r.history[id], msg)
	r.messageCount++

	recipients := make([]Peer, 0, len(r.entries))
	for otherID, e := range r.entries {
		if otherID == id || e.peer == nil {
			continue
		}
		if r.radius.Contains(p, e.session.Point()) {
			recipients = append(recipients, e.peer)
		}
	}

	return msg, recipients, nil
}

// QueryNear returns every stored message sent within the radius of p,
// including messages from clients that have since disconnected. Messages are
// grouped by author in first-message order and keep insertion order within
// each author.
func (r *Registry) QueryNear(p geo.Point) []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ChatMessage, 0)
	for _, author := range r.authors {
		for _, msg := range r.history[author] {
			if r.radius.Contains(p, msg.Point()) {
				out = append(out, msg)
			}
		}
	}
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats returns current counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := 0
	for _, e := range r.entries {
		if e.peer != nil {
			online++
		}
	}
	return Stats{
		Sessions: len(r.entries),
		Online:   online,
		Messages: r.messageCount,
		Authors:  len(r.authors),
	}
}
