package anilist

// mediaTitle carries the localized and romanized titles of a media entry.
type mediaTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

// Display prefers the English title and falls back to romaji.
func (t mediaTitle) Display() string {
	if t.English != "" {
		return t.English
	}
	return t.Romaji
}

type coverImage struct {
	ExtraLarge string `json:"extraLarge"`
}

type media struct {
	ID           int        `json:"id"`
	Title        mediaTitle `json:"title"`
	CoverImage   coverImage `json:"coverImage"`
	Genres       []string   `json:"genres"`
	AverageScore *int       `json:"averageScore"`
}

type pageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type mediaPage struct {
	PageInfo pageInfo `json:"pageInfo"`
	Media    []media  `json:"media"`
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlErrorEntry struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data struct {
		Page  *mediaPage `json:"Page"`
		Media *media     `json:"Media"`
	} `json:"data"`
	Errors []gqlErrorEntry `json:"errors"`
}
