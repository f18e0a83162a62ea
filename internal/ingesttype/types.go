// Package ingesttype holds the wire and row shapes the ingest pipeline
// reads and writes: parsed export JSON on one side, persisted activity
// and level rows on the other.
package ingesttype

import "time"

// Author identifies the sender of a Message.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"isBot"`
}

// Message is one exported chat message, as read from a channel export file.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Author    Author    `json:"author"`
}

// GuildRef identifies the guild an Export belongs to.
type GuildRef struct {
	ID   uint64 `json:"id,string"`
	Name string `json:"name"`
}

// ChannelRef identifies the channel an Export was scraped from.
type ChannelRef struct {
	ID uint64 `json:"id,string"`
}

// Export is the per-channel-file payload: one guild, one channel, its messages.
type Export struct {
	Guild    GuildRef   `json:"guild"`
	Channel  ChannelRef `json:"channel"`
	Messages []Message  `json:"messages"`
}

// ActivityRow is one persisted row in UserActivity, per spec §3.
type ActivityRow struct {
	ChannelID               uint64
	GuildID                 int64
	UserID                  int64
	InsertDate              time.Time
	MessageHash             string
	MessageLength           int
	MessageSimhash          int64
	NormalizedLength        int
	XPGained                int
	GuildAverageMessageLen  float64
	GuildMessageCount       int
}

// UserLevelsRow is the one-per-(user,guild) aggregate row, per spec §3.
type UserLevelsRow struct {
	UserID                     int64
	GuildID                    int64
	TotalXP                    int
	Level                      int
	UserMessageCount           int
	UserAverageMessageLength   float64
	UserAverageMessageLengthEMA float64
}
