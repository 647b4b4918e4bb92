package anilist

import "github.com/anipixel/anipixel/core/nav"

const (
	mediaFieldsFragment  = "fragment mediaFields on Media { id title { romaji english } }"
	detailFieldsFragment = "fragment detailFields on Media { id title { romaji english } coverImage { extraLarge } genres averageScore }"

	trendingQuery = "query ($page: Int, $perPage: Int) { Page(page: $page, perPage: $perPage) { pageInfo { hasNextPage } media(sort: TRENDING_DESC, type: ANIME, isAdult: false) { ...mediaFields } } } " + mediaFieldsFragment
	popularQuery  = "query ($page: Int, $perPage: Int) { Page(page: $page, perPage: $perPage) { pageInfo { hasNextPage } media(sort: POPULARITY_DESC, type: ANIME, isAdult: false) { ...mediaFields } } } " + mediaFieldsFragment
	genreQuery    = "query ($page: Int, $perPage: Int, $genre: String) { Page(page: $page, perPage: $perPage) { pageInfo { hasNextPage } media(sort: SCORE_DESC, type: ANIME, genre: $genre, isAdult: false) { ...mediaFields } } } " + mediaFieldsFragment
	searchQuery   = "query ($page: Int, $perPage: Int, $search: String) { Page(page: $page, perPage: $perPage) { pageInfo { hasNextPage } media(search: $search, type: ANIME, isAdult: false) { ...mediaFields } } } " + mediaFieldsFragment
	detailQuery   = "query ($id: Int) { Media(id: $id, type: ANIME) { ...detailFields } } " + detailFieldsFragment
)

// listQuery resolves a list kind to its GraphQL document and, for
// genre-curated lists, the AniList genre name.
func listQuery(kind nav.ListKind) (query, genre string, ok bool) {
	switch kind {
	case nav.KindTrending:
		return trendingQuery, "", true
	case nav.KindPopular:
		return popularQuery, "", true
	case nav.KindRomance:
		return genreQuery, "Romance", true
	case nav.KindComedy:
		return genreQuery, "Comedy", true
	case nav.KindDetective:
		return genreQuery, "Mystery", true
	case nav.KindSearch:
		return searchQuery, "", true
	}
	return "", "", false
}
