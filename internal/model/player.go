package model

// ClientPlayer is the seat information sent to clients. The opponent seat
// is usually held by the text-generating bot.
type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	IsBot    bool   `json:"isBot"`
	TimeLeft int    `json:"timeLeft"`
}
