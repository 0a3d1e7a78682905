// Package transport defines the chat-network boundary: inbound messages are
// decoded once into a typed shape, and outbound interaction goes through the
// Client contract so the rest of the system never touches a raw update.
package transport

import (
	"context"
	"time"
)

// Media categories, shared with the file store.
const (
	MediaImage    = "image"
	MediaVideo    = "video"
	MediaDocument = "document"
	MediaAudio    = "audio"
)

// Attachment is a closed set of media payloads. Exactly one variant is set
// on a message that carries media.
type Attachment interface {
	MediaType() string
	Caption() string
	Filename() string
}

type Image struct {
	Text string
	MIME string
	Ref  string // opaque transport handle used to fetch the bytes
}

func (Image) MediaType() string  { return MediaImage }
func (a Image) Caption() string  { return a.Text }
func (a Image) Filename() string { return "" }

type Video struct {
	Text string
	MIME string
	Ref  string
}

func (Video) MediaType() string  { return MediaVideo }
func (a Video) Caption() string  { return a.Text }
func (a Video) Filename() string { return "" }

type Document struct {
	Text string
	Name string
	MIME string
	Ref  string
}

func (Document) MediaType() string  { return MediaDocument }
func (a Document) Caption() string  { return a.Text }
func (a Document) Filename() string { return a.Name }

type Audio struct {
	MIME string
	Ref  string
}

func (Audio) MediaType() string { return MediaAudio }
func (Audio) Caption() string   { return "" }
func (Audio) Filename() string  { return "" }

// Message is one decoded inbound chat event.
type Message struct {
	ID         string
	ChatID     string // stable group or direct-chat identifier
	Sender     string
	Text       string
	Attachment Attachment // nil when the message is text-only
	Timestamp  time.Time
	IsGroup    bool
}

// Client is the transport/session collaborator.
type Client interface {
	SendText(ctx context.Context, chatID, text string) error
	DownloadAttachment(ctx context.Context, msg *Message) ([]byte, error)
}
