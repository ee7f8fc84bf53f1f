package spotify

// Wire types for the subset of the Spotify Web API the catalog uses.

type userPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type imagePayload struct {
	URL string `json:"url"`
}

type artistRefPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type artistPayload struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

type artistsPayload struct {
	Artists []artistPayload `json:"artists"`
}

type albumPayload struct {
	Images []imagePayload `json:"images"`
}

type trackPayload struct {
	ID         string             `json:"id"`
	URI        string             `json:"uri"`
	Name       string             `json:"name"`
	Popularity int                `json:"popularity"`
	IsLocal    bool               `json:"is_local"`
	Artists    []artistRefPayload `json:"artists"`
	Album      albumPayload       `json:"album"`
}

type savedTrackItem struct {
	Track trackPayload `json:"track"`
}

type savedTracksPage struct {
	Items []savedTrackItem `json:"items"`
	Next  string           `json:"next"`
	Total int              `json:"total"`
}

type playlistTrackItem struct {
	// Track is a pointer: the API returns null items for tracks that are no
	// longer available.
	Track *trackPayload `json:"track"`
}

type playlistTracksPage struct {
	Items []playlistTrackItem `json:"items"`
	Next  string              `json:"next"`
	Total int                 `json:"total"`
}

type playlistPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Collaborative bool   `json:"collaborative"`
	Owner         struct {
		ID string `json:"id"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type playlistsPage struct {
	Items []playlistPayload `json:"items"`
	Next  string            `json:"next"`
	Total int               `json:"total"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type removeTracksRequest struct {
	Tracks []removeTrackRef `json:"tracks"`
}

type removeTrackRef struct {
	URI string `json:"uri"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
