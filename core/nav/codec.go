package nav

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates descriptor fields inside callback payloads. Action and
// kind tokens and numeric fields never contain it; only a free-text search
// query may. Decoding therefore splits on the delimiter, consumes the fixed
// leading fields positionally, and rejoins whatever remains to reconstruct
// the query. This holds only as long as no non-query token grows an
// underscore, which the token tables in this package guarantee.
const Delimiter = "_"

// MaxEncodedLen is the Telegram bound on callback_data. Encoded descriptors
// beyond it would be rejected by the platform, so Encode reports them as
// errors instead of truncating. This also bounds how much return state a
// detail descriptor can nest: a very long search query may not fit.
const MaxEncodedLen = 64

const (
	actionMenu   = "menu"
	actionList   = "list"
	actionDetail = "detail"
)

// DecodeError reports a malformed callback payload. It is an expected
// condition (stale buttons, foreign payloads) and never propagates as a
// fatal fault.
type DecodeError struct {
	Data   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("nav: bad callback data %q: %s", e.Data, e.Reason)
}

// Encode serializes a descriptor into its callback payload form.
func Encode(d Descriptor) (string, error) {
	encoded, err := encode(d)
	if err != nil {
		return "", err
	}
	if len(encoded) > MaxEncodedLen {
		return "", fmt.Errorf("nav: encoded descriptor exceeds %d bytes: %q", MaxEncodedLen, encoded)
	}
	return encoded, nil
}

func encode(d Descriptor) (string, error) {
	switch d.Action {
	case ActionMenu:
		return actionMenu, nil

	case ActionList:
		kind, ok := kindTokens[d.Kind]
		if !ok {
			return "", fmt.Errorf("nav: unknown list kind %d", int(d.Kind))
		}
		if d.Page < 1 {
			return "", fmt.Errorf("nav: list page must be >= 1, got %d", d.Page)
		}
		if d.Query != "" && d.Kind != KindSearch {
			return "", fmt.Errorf("nav: query is only valid for search lists")
		}
		parts := []string{actionList, kind, strconv.Itoa(d.Page)}
		// An empty query is omitted entirely; no dangling delimiter.
		if d.Kind == KindSearch && d.Query != "" {
			parts = append(parts, d.Query)
		}
		return strings.Join(parts, Delimiter), nil

	case ActionDetail:
		if d.ItemID < 1 {
			return "", fmt.Errorf("nav: item id must be >= 1, got %d", d.ItemID)
		}
		if d.Return == nil || d.Return.Action != ActionList {
			return "", fmt.Errorf("nav: detail descriptor requires a list return target")
		}
		tail, err := encode(*d.Return)
		if err != nil {
			return "", err
		}
		return actionDetail + Delimiter + strconv.Itoa(d.ItemID) + Delimiter + tail, nil
	}
	return "", fmt.Errorf("nav: unknown action %d", int(d.Action))
}

// Decode parses a callback payload back into a descriptor. Any malformed
// input yields a *DecodeError.
func Decode(data string) (Descriptor, error) {
	if data == "" {
		return Descriptor{}, &DecodeError{Data: data, Reason: "empty payload"}
	}
	tokens := strings.Split(data, Delimiter)

	switch tokens[0] {
	case actionMenu:
		if len(tokens) != 1 {
			return Descriptor{}, &DecodeError{Data: data, Reason: "unexpected fields after menu action"}
		}
		return Descriptor{Action: ActionMenu}, nil

	case actionList:
		return decodeList(data, tokens)

	case actionDetail:
		if len(tokens) < 2 {
			return Descriptor{}, &DecodeError{Data: data, Reason: "detail payload missing item id"}
		}
		id, err := strconv.Atoi(tokens[1])
		if err != nil || id < 1 {
			return Descriptor{}, &DecodeError{Data: data, Reason: "item id is not a positive integer"}
		}
		if len(tokens) < 3 {
			return Descriptor{}, &DecodeError{Data: data, Reason: "detail payload missing return descriptor"}
		}
		ret, err := Decode(strings.Join(tokens[2:], Delimiter))
		if err != nil {
			return Descriptor{}, &DecodeError{Data: data, Reason: "bad return descriptor"}
		}
		if ret.Action != ActionList {
			return Descriptor{}, &DecodeError{Data: data, Reason: "return descriptor is not a list"}
		}
		return Descriptor{Action: ActionDetail, ItemID: id, Return: &ret}, nil
	}
	return Descriptor{}, &DecodeError{Data: data, Reason: "unknown action token"}
}

func decodeList(data string, tokens []string) (Descriptor, error) {
	if len(tokens) < 3 {
		return Descriptor{}, &DecodeError{Data: data, Reason: "list payload too short"}
	}
	kind, ok := kindFromToken(tokens[1])
	if !ok {
		return Descriptor{}, &DecodeError{Data: data, Reason: "unknown list kind token"}
	}
	page, err := strconv.Atoi(tokens[2])
	if err != nil || page < 1 {
		return Descriptor{}, &DecodeError{Data: data, Reason: "page is not a positive integer"}
	}

	d := Descriptor{Action: ActionList, Kind: kind, Page: page}
	if len(tokens) > 3 {
		if kind != KindSearch {
			return Descriptor{}, &DecodeError{Data: data, Reason: "unexpected trailing fields"}
		}
		// The query itself may contain the delimiter; everything after
		// the page field belongs to it.
		d.Query = strings.Join(tokens[3:], Delimiter)
	}
	return d, nil
}
