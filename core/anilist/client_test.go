package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anipixel/anipixel/core/config"
	"github.com/anipixel/anipixel/core/nav"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.AniListConfig{APIURL: srv.URL, PerPage: 5}, srv.Client(), nil)
	return client, srv
}

func decodeRequest(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()
	var req capturedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return req
}

func TestListTrending(t *testing.T) {
	var got capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":true},"media":[
			{"id":21,"title":{"romaji":"One Piece","english":"One Piece"}},
			{"id":30,"title":{"romaji":"NARUTO","english":null}}
		]}}}`))
	})

	page, err := client.List(context.Background(), nav.KindTrending, 2, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if !strings.Contains(got.Query, "TRENDING_DESC") {
		t.Fatalf("query = %q, want trending sort", got.Query)
	}
	if got.Variables["page"] != float64(2) || got.Variables["perPage"] != float64(5) {
		t.Fatalf("variables = %v", got.Variables)
	}
	if _, hasGenre := got.Variables["genre"]; hasGenre {
		t.Fatalf("trending request carries genre: %v", got.Variables)
	}

	if page.Page != 2 || !page.HasNextPage {
		t.Fatalf("page = %+v", page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Items[0].ID != 21 || page.Items[0].Title != "One Piece" {
		t.Fatalf("item 0 = %+v", page.Items[0])
	}
	// english missing falls back to romaji
	if page.Items[1].Title != "NARUTO" {
		t.Fatalf("item 1 title = %q", page.Items[1].Title)
	}
}

func TestListGenreKinds(t *testing.T) {
	cases := []struct {
		kind      nav.ListKind
		wantGenre string
	}{
		{nav.KindRomance, "Romance"},
		{nav.KindComedy, "Comedy"},
		{nav.KindDetective, "Mystery"},
	}
	for _, tc := range cases {
		var got capturedRequest
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = decodeRequest(t, r)
			_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":false},"media":[]}}}`))
		})
		if _, err := client.List(context.Background(), tc.kind, 1, ""); err != nil {
			t.Fatalf("%s: list: %v", tc.kind, err)
		}
		if !strings.Contains(got.Query, "SCORE_DESC") {
			t.Fatalf("%s: query = %q, want score sort", tc.kind, got.Query)
		}
		if got.Variables["genre"] != tc.wantGenre {
			t.Fatalf("%s: genre = %v, want %q", tc.kind, got.Variables["genre"], tc.wantGenre)
		}
	}
}

func TestListSearchPassesQuery(t *testing.T) {
	var got capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":false},"media":[]}}}`))
	})
	if _, err := client.List(context.Background(), nav.KindSearch, 1, "one piece"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got.Variables["search"] != "one piece" {
		t.Fatalf("search var = %v", got.Variables["search"])
	}
}

func TestListEmptyPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":false},"media":[]}}}`))
	})
	page, err := client.List(context.Background(), nav.KindPopular, 1, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 || page.HasNextPage {
		t.Fatalf("page = %+v, want empty last page", page)
	}
}

func TestDetail(t *testing.T) {
	var got capturedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		_, _ = w.Write([]byte(`{"data":{"Media":{
			"id":21,
			"title":{"romaji":"One Piece","english":"One Piece"},
			"coverImage":{"extraLarge":"https://img.example.com/21.jpg"},
			"genres":["Action","Adventure"],
			"averageScore":86
		}}}`))
	})

	det, err := client.Detail(context.Background(), 21)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if got.Variables["id"] != float64(21) {
		t.Fatalf("id var = %v", got.Variables["id"])
	}
	if det.ID != 21 || det.Title != "One Piece" {
		t.Fatalf("detail = %+v", det)
	}
	if det.CoverURL != "https://img.example.com/21.jpg" {
		t.Fatalf("cover = %q", det.CoverURL)
	}
	if len(det.Genres) != 2 || det.Genres[1] != "Adventure" {
		t.Fatalf("genres = %v", det.Genres)
	}
	if det.Score == nil || *det.Score != 86 {
		t.Fatalf("score = %v", det.Score)
	}
}

func TestDetailNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Media":null}}`))
	})
	_, err := client.Detail(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestErrorsArrayBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Too Many Requests"}],"data":{}}`))
	})
	_, err := client.List(context.Background(), nav.KindTrending, 1, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T %v, want *APIError", err, err)
	}
	if len(apiErr.Messages) != 1 || apiErr.Messages[0] != "Too Many Requests" {
		t.Fatalf("messages = %v", apiErr.Messages)
	}
}

func TestNonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})
	_, err := client.List(context.Background(), nav.KindTrending, 1, "")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestMissingPageInResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	_, err := client.List(context.Background(), nav.KindTrending, 1, "")
	if err == nil {
		t.Fatal("expected error for response without Page")
	}
}

func TestRequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if ac := r.Header.Get("Accept"); ac != "application/json" {
			t.Errorf("accept = %q", ac)
		}
		_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"hasNextPage":false},"media":[]}}}`))
	})
	if _, err := client.List(context.Background(), nav.KindTrending, 1, ""); err != nil {
		t.Fatalf("list: %v", err)
	}
}
