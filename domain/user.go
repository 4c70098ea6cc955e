package domain

// BotInformation is present on users that are bots.
type BotInformation struct {
	Owner string `json:"owner"`
}

// User is the subset of a user account bundled with bulk message responses.
type User struct {
	ID       string          `json:"_id"`
	Username string          `json:"username"`
	Avatar   *File           `json:"avatar,omitempty"`
	Bot      *BotInformation `json:"bot,omitempty"`
}
