package nav

import (
	"fmt"
	"strings"

	"github.com/anipixel/anipixel/core/telegram/format"
)

const (
	maxTitleRunes   = 40
	truncTitleRunes = 37
	titleEllipsis   = "..."
)

// Button is one inline keyboard button. Exactly one of Data and WebAppURL
// is set: Data carries an encoded descriptor, WebAppURL opens the mini app.
type Button struct {
	Text      string
	Data      string
	WebAppURL string
}

// ButtonGrid is an inline keyboard: rows of buttons.
type ButtonGrid [][]Button

// Item is one entry of a list screen.
type Item struct {
	ID    int
	Title string
}

// ListPage is one fetched page of catalog results. Page is caller-supplied;
// the catalog API does not echo it back.
type ListPage struct {
	Items       []Item
	HasNextPage bool
	Page        int
}

// Detail is the full record behind a detail card.
type Detail struct {
	ID       int
	Title    string
	CoverURL string
	Genres   []string
	// Score is the average score percentage (0-100) when known.
	Score *int
}

// RenderMenu builds the category menu keyboard. Payloads are constant and
// known-valid, so no error is possible here.
func RenderMenu() ButtonGrid {
	listBtn := func(text string, kind ListKind) Button {
		data, _ := Encode(Descriptor{Action: ActionList, Kind: kind, Page: 1})
		return Button{Text: text, Data: data}
	}
	return ButtonGrid{
		{listBtn("🔥 Trending", KindTrending), listBtn("⭐ Popular", KindPopular)},
		{listBtn("💖 Romance", KindRomance), listBtn("😂 Comedy", KindComedy)},
		{listBtn("🕵️‍♂️ Mystery", KindDetective)},
	}
}

// RenderList builds the keyboard for one list page: a row per item linking
// to its detail card (with the current list as return target), a pagination
// row when applicable, and a trailing menu row.
func RenderList(p ListPage, kind ListKind, page int, query string) (ButtonGrid, error) {
	ret := Descriptor{Action: ActionList, Kind: kind, Page: page, Query: query}

	var grid ButtonGrid
	for _, item := range p.Items {
		data, err := Encode(Descriptor{
			Action: ActionDetail,
			ItemID: item.ID,
			Return: &ret,
		})
		if err != nil {
			return nil, fmt.Errorf("render list: %w", err)
		}
		grid = append(grid, []Button{{Text: TruncateTitle(item.Title), Data: data}})
	}

	var pagination []Button
	if page > 1 {
		data, err := Encode(Descriptor{Action: ActionList, Kind: kind, Page: page - 1, Query: query})
		if err != nil {
			return nil, fmt.Errorf("render list: %w", err)
		}
		pagination = append(pagination, Button{Text: "◀️ Prev", Data: data})
	}
	if p.HasNextPage {
		data, err := Encode(Descriptor{Action: ActionList, Kind: kind, Page: page + 1, Query: query})
		if err != nil {
			return nil, fmt.Errorf("render list: %w", err)
		}
		pagination = append(pagination, Button{Text: "Next ▶️", Data: data})
	}
	if len(pagination) > 0 {
		grid = append(grid, pagination)
	}

	return append(grid, menuRow()), nil
}

// RenderDetail builds the keyboard of a detail card: the mini-app link and a
// back button restoring the originating list screen.
func RenderDetail(webAppURL string, id int, ret *Descriptor) (ButtonGrid, error) {
	grid := ButtonGrid{
		{{Text: "🚀 View in Mini App", WebAppURL: fmt.Sprintf("%s?animeId=%d", webAppURL, id)}},
	}
	if ret != nil {
		data, err := Encode(*ret)
		if err != nil {
			return nil, fmt.Errorf("render detail: %w", err)
		}
		grid = append(grid, []Button{{Text: "⬅️ Back to List", Data: data}})
	}
	return grid, nil
}

func menuRow() []Button {
	data, _ := Encode(Descriptor{Action: ActionMenu})
	return []Button{{Text: "🏠 Main Menu", Data: data}}
}

// TruncateTitle bounds a display title to 40 characters, replacing the tail
// with an ellipsis when it overflows. Counting is per rune so multi-byte
// scripts truncate at character boundaries.
func TruncateTitle(title string) string {
	r := []rune(title)
	if len(r) <= maxTitleRunes {
		return title
	}
	return string(r[:truncTitleRunes]) + titleEllipsis
}

// ListHeader builds the text body shown above a list keyboard.
func ListHeader(kind ListKind, page int, query string) string {
	label := kind.Label()
	if query != "" {
		label += " - " + format.EscapeMarkdown(query)
	}
	return fmt.Sprintf("Here are the results for: *%s*\nPage: %d", label, page)
}

// DetailCaption builds the Markdown caption of a detail card.
func DetailCaption(d *Detail) string {
	score := "N/A"
	if d.Score != nil {
		score = fmt.Sprintf("%d%%", *d.Score)
	}
	genres := format.EscapeMarkdown(strings.Join(d.Genres, ", "))
	return fmt.Sprintf("🎬 *%s*\n\n*Genre:* %s\n*Score:* %s", format.EscapeMarkdown(d.Title), genres, score)
}
