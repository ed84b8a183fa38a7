package domain

// MessageEvent is a message delivered by the chat-platform ingestion layer.
// Payloads arrive as one of two concrete shapes; anything that does not carry
// all required fields is skipped rather than rejected.
type MessageEvent struct {
	ChannelID string `json:"channel"`
	UserID    string `json:"user"`
	Timestamp string `json:"ts"`
	Text      string `json:"text"`
	BotID     string `json:"bot_id,omitempty"`
	Subtype   string `json:"subtype,omitempty"`
}

// Scorable reports whether the event carries every field scoring requires.
// A false result means "not a scorable message", not an error.
func (e MessageEvent) Scorable() bool {
	return e.ChannelID != "" && e.UserID != "" && e.Timestamp != "" && e.BotID == "" && e.Subtype == ""
}

// ReactionEvent is a reaction added to (+1) or removed from (-1) a message.
type ReactionEvent struct {
	ChannelID string `json:"channel"`
	MessageTS string `json:"message_ts"`
	Reaction  string `json:"reaction"`
	Direction int    `json:"direction"`
}

// Valid reports whether the reaction event is complete and carries a
// recognised direction.
func (e ReactionEvent) Valid() bool {
	return e.ChannelID != "" && e.MessageTS != "" && e.Reaction != "" && (e.Direction == 1 || e.Direction == -1)
}
