// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func testClient(publicURL string) *Client {
	return &Client{
		bucket:    "catalog-media",
		endpoint:  "https://s3.example.com",
		publicURL: publicURL,
	}
}

func TestNewUnconfiguredReturnsNil(t *testing.T) {
	cases := [][6]string{
		{"", "r", "ak", "sk", "b", ""},
		{"https://s3.example.com", "r", "", "sk", "b", ""},
		{"https://s3.example.com", "r", "ak", "", "b", ""},
	}
	for _, c := range cases {
		client, err := New(c[0], c[1], c[2], c[3], c[4], c[5])
		if err != nil {
			t.Errorf("New(%v) returned error: %v", c, err)
		}
		if client != nil {
			t.Errorf("New(%v) should return nil client when unconfigured", c)
		}
	}
}

func TestNewTrimsTrailingSlashes(t *testing.T) {
	client, err := New("https://s3.example.com/", "r", "ak", "sk", "media", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := client.FileURL("media/a.jpg"); got != "https://cdn.example.com/media/a.jpg" {
		t.Errorf("FileURL = %q", got)
	}
}

func TestFileURL(t *testing.T) {
	withCDN := testClient("https://cdn.example.com")
	if got := withCDN.FileURL("media/a.jpg"); got != "https://cdn.example.com/media/a.jpg" {
		t.Errorf("cdn FileURL = %q", got)
	}

	pathStyle := testClient("")
	if got := pathStyle.FileURL("media/a.jpg"); got != "https://s3.example.com/catalog-media/media/a.jpg" {
		t.Errorf("path-style FileURL = %q", got)
	}
}

func TestResolveAbsoluteURL(t *testing.T) {
	c := testClient("https://cdn.example.com")
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://elsewhere.example.com/x.jpg", "https://elsewhere.example.com/x.jpg"},
		{"media/a.jpg", "https://cdn.example.com/media/a.jpg"},
		{"/media/a.jpg", "https://cdn.example.com/media/a.jpg"},
	}
	for _, tt := range tests {
		if got := c.ResolveAbsoluteURL(tt.in); got != tt.want {
			t.Errorf("ResolveAbsoluteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRelativeKey(t *testing.T) {
	c := testClient("https://cdn.example.com")
	tests := []struct {
		in   string
		key  string
		ours bool
	}{
		{"media/a.jpg", "media/a.jpg", true},
		{"/media/a.jpg", "media/a.jpg", true},
		{"", "", false},
		{"https://cdn.example.com/media/a.jpg", "media/a.jpg", true},
		{"https://s3.example.com/catalog-media/media/a.jpg", "media/a.jpg", true},
		{"https://elsewhere.example.com/media/a.jpg", "", false},
	}
	for _, tt := range tests {
		key, ours := c.RelativeKey(tt.in)
		if key != tt.key || ours != tt.ours {
			t.Errorf("RelativeKey(%q) = (%q, %v), want (%q, %v)", tt.in, key, ours, tt.key, tt.ours)
		}
	}
}

func TestPassthroughURLs(t *testing.T) {
	var p PassthroughURLs
	for _, raw := range []string{"", "media/a.jpg", "https://cdn.example.com/x.jpg"} {
		if got := p.ResolveAbsoluteURL(raw); got != raw {
			t.Errorf("ResolveAbsoluteURL(%q) = %q, want unchanged", raw, got)
		}
	}
}
