// Package nav implements the navigation layer of the bot: the callback-data
// codec that round-trips screen state through Telegram inline buttons, the
// list keyboard renderer, and the controller that turns incoming updates into
// menu, list and detail screens.
package nav

// Action identifies the screen a callback button transitions to.
type Action int

const (
	// ActionMenu shows the category menu.
	ActionMenu Action = iota
	// ActionList shows one page of a list.
	ActionList
	// ActionDetail shows a single item card.
	ActionDetail
)

func (a Action) String() string {
	switch a {
	case ActionMenu:
		return actionMenu
	case ActionList:
		return actionList
	case ActionDetail:
		return actionDetail
	}
	return "unknown"
}

// ListKind selects which catalog list a list screen shows.
type ListKind int

const (
	KindTrending ListKind = iota
	KindPopular
	KindRomance
	KindComedy
	KindDetective
	KindSearch
)

var kindTokens = map[ListKind]string{
	KindTrending:  "trending",
	KindPopular:   "popular",
	KindRomance:   "romance",
	KindComedy:    "comedy",
	KindDetective: "detective",
	KindSearch:    "search",
}

var kindLabels = map[ListKind]string{
	KindTrending:  "Trending",
	KindPopular:   "Popular",
	KindRomance:   "Romance",
	KindComedy:    "Comedy",
	KindDetective: "Detective",
	KindSearch:    "Search",
}

func (k ListKind) String() string {
	if tok, ok := kindTokens[k]; ok {
		return tok
	}
	return "unknown"
}

// Label returns the human-readable list name used in screen headers.
func (k ListKind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return "Unknown"
}

func kindFromToken(tok string) (ListKind, bool) {
	for k, t := range kindTokens {
		if t == tok {
			return k, true
		}
	}
	return 0, false
}

// Descriptor is the decoded form of a button's callback payload. It carries
// everything needed to rebuild the target screen: the bot itself keeps no
// per-user state between updates.
type Descriptor struct {
	Action Action

	// Kind is set for ActionList descriptors.
	Kind ListKind
	// Page is the 1-based page number for ActionList descriptors.
	Page int
	// Query holds the free-text search term; only valid when Kind is
	// KindSearch. It may contain any character, including the payload
	// delimiter.
	Query string

	// ItemID is set for ActionDetail descriptors.
	ItemID int
	// Return carries the exact list screen an ActionDetail card goes back
	// to; always an ActionList descriptor.
	Return *Descriptor
}

// Equal reports whether two descriptors describe the same transition.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.Action != o.Action || d.Kind != o.Kind || d.Page != o.Page ||
		d.Query != o.Query || d.ItemID != o.ItemID {
		return false
	}
	switch {
	case d.Return == nil && o.Return == nil:
		return true
	case d.Return == nil || o.Return == nil:
		return false
	}
	return d.Return.Equal(*o.Return)
}
