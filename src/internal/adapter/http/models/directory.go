package models

type DirectoryEntry struct {
	Owner     string `json:"owner"`
	Username  string `json:"username"`
	Locale    string `json:"locale"`
	Currency  string `json:"currency"`
	Movements int    `json:"movements"`
	Balance   Money  `json:"balance"`
}

type DirectoryResponse struct {
	Count          int              `json:"count"`
	ActiveSessions int              `json:"activeSessions"`
	Accounts       []DirectoryEntry `json:"accounts"`
}
