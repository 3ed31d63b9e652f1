// Package bot implements the chat bot reactions on incoming messages: static guards and keyword
// triggers with throttled canned replies. Rules are fetched lazily from a remote or local source.
package bot

import (
	"fmt"
	"strings"
	"time"
)

// Response describes bot's reaction on particular message
type Response struct {
	Text    string
	Send    bool   // status
	ReplyTo int    // message to reply to, if 0 then no reply but common message
	Kind    string // what produced the response, "guard", "trigger" or "warn"
}

// Message is primary record to pass data from/to bots
type Message struct {
	ID     int
	From   User
	ChatID int64
	Sent   time.Time
	Text   string `json:",omitempty"`
}

// User defines user info of the Message
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// DisplayName returns user's display name or username or id
func DisplayName(msg Message) string {
	displayUsername := msg.From.DisplayName
	if displayUsername == "" {
		displayUsername = msg.From.Username
	}
	if displayUsername == "" {
		displayUsername = fmt.Sprintf("%d", msg.From.ID)
	}
	return strings.TrimSpace(displayUsername)
}
