// Package api is the typed access layer over the Segmentation Fault REST
// API. Each resource has its own client; all of them share one Transport and
// one Session and translate wire records into domain records.
package api

import (
	"github.com/rs/zerolog"

	"github.com/segmentation-fault/forum/internal/api/session"
	"github.com/segmentation-fault/forum/internal/api/transport"
)

const defaultFanOutLimit = 8

// Client bundles the resource clients.
type Client struct {
	transport *transport.Transport
	session   *session.Session
	log       zerolog.Logger
	fanOut    int

	Auth     *AuthClient
	Users    *UserClient
	Posts    *PostClient
	Comments *CommentClient
}

// Option customises a Client.
type Option func(*Client)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithFanOutLimit bounds how many list items are assembled concurrently.
// Zero or less removes the bound.
func WithFanOutLimit(n int) Option {
	return func(c *Client) { c.fanOut = n }
}

// New wires the resource clients to t and sess. A nil session is replaced
// by an anonymous one.
func New(t *transport.Transport, sess *session.Session, opts ...Option) *Client {
	if sess == nil {
		sess = session.New(nil)
	}
	c := &Client{
		transport: t,
		session:   sess,
		log:       zerolog.Nop(),
		fanOut:    defaultFanOutLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Auth = &AuthClient{c: c}
	c.Users = &UserClient{c: c}
	c.Posts = &PostClient{c: c}
	c.Comments = &CommentClient{c: c}
	return c
}

// Session returns the session requests are sent with.
func (c *Client) Session() *session.Session {
	return c.session
}
