package types

import (
	"time"
)

// Embed is one embed of an exported message. Only the description is read.
type Embed struct {
	Description string `json:"description"`
}

// Message is one exported chat message
type Message struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"created_at"`
	Timestamp time.Time `json:"-"` // parsed CreatedAt in UTC, zero when missing or invalid
	Embeds    []Embed   `json:"embeds"`
}

// Time returns the parsed timestamp and whether it was present.
func (m Message) Time() (time.Time, bool) {
	return m.Timestamp, !m.Timestamp.IsZero()
}

// EmbedTexts returns the description of every embed, empty ones included.
func (m Message) EmbedTexts() []string {
	texts := make([]string, 0, len(m.Embeds))
	for _, e := range m.Embeds {
		texts = append(texts, e.Description)
	}
	return texts
}

// Source is the content of one export file
type Source struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Messages []Message `json:"messages"`
}
