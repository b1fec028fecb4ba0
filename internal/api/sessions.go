package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tvfinder/tvfinder/internal/controller"
	"github.com/tvfinder/tvfinder/internal/view"
	"github.com/tvfinder/tvfinder/internal/websocket"
)

// Message types exchanged with the page script.
const (
	MsgSearchSubmit     = "search:submit"
	MsgShowEpisodes     = "show:episodes"
	MsgRegionReplace    = "region:replace"
	MsgRegionVisibility = "region:visibility"
	MsgActionError      = "action:error"
)

// RegionReplacePayload carries new content for one page region.
type RegionReplacePayload struct {
	Region string `json:"region"`
	HTML   string `json:"html"`
}

// RegionVisibilityPayload shows or hides one page region.
type RegionVisibilityPayload struct {
	Region  string `json:"region"`
	Visible bool   `json:"visible"`
}

// ActionErrorPayload reports a failed user action.
type ActionErrorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// SearchSubmitPayload is sent when the search form is submitted.
type SearchSubmitPayload struct {
	Term string `json:"term"`
}

// ShowEpisodesPayload is sent when a show's episodes trigger is clicked.
type ShowEpisodesPayload struct {
	ShowID int `json:"showId"`
}

// socketRegion is a page region updated by pushing messages to its client.
type socketRegion struct {
	client *websocket.Client
	name   string
}

func (r *socketRegion) Replace(content string) error {
	return r.client.Send(MsgRegionReplace, RegionReplacePayload{Region: r.name, HTML: content})
}

func (r *socketRegion) SetVisible(visible bool) error {
	return r.client.Send(MsgRegionVisibility, RegionVisibilityPayload{Region: r.name, Visible: visible})
}

type session struct {
	client *websocket.Client
	ctrl   *controller.Controller
	ctx    context.Context
	cancel context.CancelFunc
}

// Sessions runs one controller per websocket connection.
type Sessions struct {
	catalog controller.Catalog
	markup  view.Markup
	logger  zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

// NewSessions creates the websocket session handler.
func NewSessions(cat controller.Catalog, markup view.Markup, logger zerolog.Logger) *Sessions {
	return &Sessions{
		catalog:  cat,
		markup:   markup,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Connected builds the UI context and controller for a new connection.
func (s *Sessions) Connected(c *websocket.Client) {
	ui := view.NewUIContext(
		&socketRegion{client: c, name: view.RegionShows},
		&socketRegion{client: c, name: view.RegionEpisodes},
	)
	ctx, cancel := context.WithCancel(context.Background())

	sess := &session{
		client: c,
		ctrl:   controller.New(s.catalog, view.NewRenderer(ui, s.markup), s.logger.With().Str("session", c.ID()).Logger()),
		ctx:    ctx,
		cancel: cancel,
	}

	s.mu.Lock()
	s.sessions[c.ID()] = sess
	s.mu.Unlock()
}

// Disconnected cancels the session's in-flight catalog requests.
func (s *Sessions) Disconnected(c *websocket.Client) {
	s.mu.Lock()
	sess, ok := s.sessions[c.ID()]
	delete(s.sessions, c.ID())
	s.mu.Unlock()

	if ok {
		sess.cancel()
	}
}

// Received dispatches a user action. Each action runs in its own goroutine;
// the controller decides which of overlapping actions reaches the page.
func (s *Sessions) Received(c *websocket.Client, msg websocket.Inbound) {
	s.mu.RLock()
	sess, ok := s.sessions[c.ID()]
	s.mu.RUnlock()
	if !ok {
		return
	}

	switch msg.Type {
	case MsgSearchSubmit:
		var p SearchSubmitPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.reject(sess, msg.Type, err)
			return
		}
		s.run(sess, msg.Type, func(ctx context.Context) error {
			return sess.ctrl.Search(ctx, p.Term)
		})

	case MsgShowEpisodes:
		var p ShowEpisodesPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.ShowID <= 0 {
			s.reject(sess, msg.Type, errors.New("invalid show id"))
			return
		}
		s.run(sess, msg.Type, func(ctx context.Context) error {
			return sess.ctrl.ShowEpisodes(ctx, p.ShowID)
		})

	default:
		s.logger.Debug().Str("session", c.ID()).Str("type", msg.Type).Msg("ignoring unknown message")
	}
}

// Wait blocks until every dispatched action has returned or ctx is done.
func (s *Sessions) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sessions) run(sess *session, action string, fn func(ctx context.Context) error) {
	if sess.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := fn(sess.ctx)
		switch {
		case err == nil:
		case errors.Is(err, controller.ErrStale):
		case errors.Is(err, context.Canceled):
			s.logger.Debug().Str("session", sess.client.ID()).Str("action", action).Msg("action cancelled")
		default:
			s.reject(sess, action, err)
		}
	}()
}

func (s *Sessions) reject(sess *session, action string, err error) {
	s.logger.Warn().Err(err).Str("session", sess.client.ID()).Str("action", action).Msg("action failed")
	if sendErr := sess.client.Send(MsgActionError, ActionErrorPayload{
		Action:  action,
		Message: userMessage(err),
	}); sendErr != nil {
		s.logger.Debug().Err(sendErr).Str("session", sess.client.ID()).Msg("could not report action error")
	}
}
