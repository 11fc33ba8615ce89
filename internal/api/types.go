package api

// PublicServerInfo is the response from /System/Info/Public, available
// without authentication
type PublicServerInfo struct {
	ID                     string `json:"Id"`
	LocalAddress           string `json:"LocalAddress"`
	ServerName             string `json:"ServerName"`
	Version                string `json:"Version"`
	ProductName            string `json:"ProductName"`
	OperatingSystem        string `json:"OperatingSystem"`
	StartupWizardCompleted bool   `json:"StartupWizardCompleted"`
}

// UserData carries per-user playback state for an item
type UserData struct {
	PlaybackPositionTicks int64  `json:"PlaybackPositionTicks"`
	PlayCount             int    `json:"PlayCount"`
	IsFavorite            bool   `json:"IsFavorite"`
	Played                bool   `json:"Played"`
	ItemID                string `json:"ItemId"`
}

// Item is the subset of the server's item object the client consumes
type Item struct {
	ID             string   `json:"Id"`
	Name           string   `json:"Name"`
	ServerID       string   `json:"ServerId"`
	IsFolder       bool     `json:"IsFolder"`
	Type           string   `json:"Type"`
	CollectionType string   `json:"CollectionType,omitempty"`
	MediaType      string   `json:"MediaType"`
	UserData       UserData `json:"UserData"`
}

// ItemsResponse is the envelope for item listings
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}
