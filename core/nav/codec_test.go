package nav

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	list := func(kind ListKind, page int, query string) Descriptor {
		return Descriptor{Action: ActionList, Kind: kind, Page: page, Query: query}
	}
	ret := list(KindSearch, 3, "one piece")

	cases := []struct {
		name string
		d    Descriptor
	}{
		{"menu", Descriptor{Action: ActionMenu}},
		{"trending page 1", list(KindTrending, 1, "")},
		{"popular deep page", list(KindPopular, 42, "")},
		{"search simple", list(KindSearch, 1, "naruto")},
		{"search with spaces", list(KindSearch, 2, "one piece")},
		{"search with delimiter", list(KindSearch, 1, "fate_stay_night")},
		{"search multibyte", list(KindSearch, 1, "進撃の巨人")},
		{"detail with plain return", Descriptor{
			Action: ActionDetail,
			ItemID: 21,
			Return: &Descriptor{Action: ActionList, Kind: KindTrending, Page: 2},
		}},
		{"detail with search return", Descriptor{
			Action: ActionDetail,
			ItemID: 7,
			Return: &ret,
		}},
	}

	for _, tc := range cases {
		encoded, err := Encode(tc.d)
		if err != nil {
			t.Fatalf("%s: encode: %v", tc.name, err)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("%s: decode %q: %v", tc.name, encoded, err)
		}
		if !decoded.Equal(tc.d) {
			t.Fatalf("%s: round trip mismatch: %q gave %+v, want %+v", tc.name, encoded, decoded, tc.d)
		}
	}
}

func TestEncodeKnownForms(t *testing.T) {
	cases := []struct {
		d    Descriptor
		want string
	}{
		{Descriptor{Action: ActionMenu}, "menu"},
		{Descriptor{Action: ActionList, Kind: KindTrending, Page: 2}, "list_trending_2"},
		{Descriptor{Action: ActionList, Kind: KindSearch, Page: 1, Query: "one piece"}, "list_search_1_one piece"},
		{
			Descriptor{Action: ActionDetail, ItemID: 21, Return: &Descriptor{Action: ActionList, Kind: KindTrending, Page: 2}},
			"detail_21_list_trending_2",
		},
	}
	for _, tc := range cases {
		got, err := Encode(tc.d)
		if err != nil {
			t.Fatalf("encode %+v: %v", tc.d, err)
		}
		if got != tc.want {
			t.Fatalf("encode %+v = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestEncodeEmptySearchOmitsDelimiter(t *testing.T) {
	got, err := Encode(Descriptor{Action: ActionList, Kind: KindSearch, Page: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "list_search_1" {
		t.Fatalf("encode = %q, want %q", got, "list_search_1")
	}
	if strings.HasSuffix(got, Delimiter) {
		t.Fatalf("encode produced dangling delimiter: %q", got)
	}
}

func TestEncodeRejectsInvalidDescriptors(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
	}{
		{"zero page", Descriptor{Action: ActionList, Kind: KindTrending, Page: 0}},
		{"query on non-search", Descriptor{Action: ActionList, Kind: KindTrending, Page: 1, Query: "x"}},
		{"detail without return", Descriptor{Action: ActionDetail, ItemID: 5}},
		{"detail with menu return", Descriptor{Action: ActionDetail, ItemID: 5, Return: &Descriptor{Action: ActionMenu}}},
		{"zero item id", Descriptor{Action: ActionDetail, ItemID: 0, Return: &Descriptor{Action: ActionList, Kind: KindTrending, Page: 1}}},
	}
	for _, tc := range cases {
		if _, err := Encode(tc.d); err == nil {
			t.Fatalf("%s: expected encode error", tc.name)
		}
	}
}

func TestEncodeRejectsOversizedPayload(t *testing.T) {
	d := Descriptor{
		Action: ActionDetail,
		ItemID: 123456,
		Return: &Descriptor{
			Action: ActionList,
			Kind:   KindSearch,
			Page:   1,
			Query:  strings.Repeat("a", 80),
		},
	}
	if _, err := Encode(d); err == nil {
		t.Fatal("expected error for payload beyond the platform bound")
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	cases := []string{
		"",
		"unknownaction_1",
		"list_trending_abc",
		"list_trending",
		"list_unknownkind_1",
		"list_trending_0",
		"list_trending_-2",
		"list_trending_2_extra",
		"menu_extra",
		"detail",
		"detail_abc_list_trending_1",
		"detail_21",
		"detail_21_menu",
		"detail_21_list_trending_abc",
		"detail_21_detail_22_list_trending_1",
	}
	for _, data := range cases {
		d, err := Decode(data)
		if err == nil {
			t.Fatalf("Decode(%q) = %+v, expected error", data, d)
		}
		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("Decode(%q) error %T, want *DecodeError", data, err)
		}
	}
}

func TestDecodeSearchQueryRejoinsDelimiters(t *testing.T) {
	d, err := Decode("list_search_2_fate_stay_night")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Kind != KindSearch || d.Page != 2 || d.Query != "fate_stay_night" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestDecodeDetailScenario(t *testing.T) {
	d, err := Decode("detail_21_list_trending_2")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Action != ActionDetail || d.ItemID != 21 {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.Return == nil || d.Return.Action != ActionList || d.Return.Kind != KindTrending || d.Return.Page != 2 {
		t.Fatalf("unexpected return descriptor: %+v", d.Return)
	}
}
