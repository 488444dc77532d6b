package main

import (
	"net/http/httptest"
	"testing"
)

func TestParseItemsQuery(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "full query",
			url:  "/items/?subreddit=all&from=1&to=9999999999&key=love",
		},
		{
			name: "range only",
			url:  "/items/?subreddit=golang&from=1488682000&to=9999999999",
		},
		{
			name:    "missing subreddit",
			url:     "/items/?from=1&to=2",
			wantErr: true,
		},
		{
			name:    "missing from",
			url:     "/items/?subreddit=all&to=2",
			wantErr: true,
		},
		{
			name:    "non-numeric to",
			url:     "/items/?subreddit=all&from=1&to=tomorrow",
			wantErr: true,
		},
		{
			name:    "inverted range",
			url:     "/items/?subreddit=all&from=10&to=1",
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", c.url, nil)
			q, msg := parseItemsQuery(r)
			if (msg != "") != c.wantErr {
				t.Fatalf("parseItemsQuery(%q) message = %q; wantErr %v", c.url, msg, c.wantErr)
			}
			if !c.wantErr && q.Subreddit == "" {
				t.Error("subreddit lost in parsing")
			}
		})
	}
}
