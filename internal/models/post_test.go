package models

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestPostIsPublished verifies that IsPublished returns true only for
// the "published" status.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		name   string
		status PostStatus
		want   bool
	}{
		{name: "published", status: PostStatusPublished, want: true},
		{name: "draft", status: PostStatusDraft, want: false},
		{name: "empty status", status: PostStatus(""), want: false},
		{name: "uppercase PUBLISHED", status: PostStatus("PUBLISHED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status}
			if got := p.IsPublished(); got != tt.want {
				t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPostStatusValid(t *testing.T) {
	tests := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusDraft, true},
		{PostStatusPublished, true},
		{PostStatus(""), false},
		{PostStatus("archived"), false},
		{PostStatus("Draft"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("PostStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// TestPostJSONFieldNames pins the wire names API clients depend on.
func TestPostJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Post{ID: 1, Title: "t", Status: PostStatusDraft, Categories: []CategoryRef{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, key := range []string{`"publishedAt":null`, `"createdAt"`, `"updatedAt"`, `"excerpt":null`, `"categories":[]`} {
		if !strings.Contains(got, key) {
			t.Errorf("marshalled post %s missing %s", got, key)
		}
	}
}
