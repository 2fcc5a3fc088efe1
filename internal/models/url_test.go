package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortURL_ResolvableAt(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		url  ShortURL
		want bool
	}{
		{
			name: "active without expiration",
			url:  ShortURL{IsActive: true},
			want: true,
		},
		{
			name: "active with future expiration",
			url:  ShortURL{IsActive: true, ExpiresAt: &future},
			want: true,
		},
		{
			name: "active with past expiration",
			url:  ShortURL{IsActive: true, ExpiresAt: &past},
			want: false,
		},
		{
			name: "active expiring exactly now",
			url:  ShortURL{IsActive: true, ExpiresAt: &now},
			want: false,
		},
		{
			name: "inactive without expiration",
			url:  ShortURL{IsActive: false},
			want: false,
		},
		{
			name: "inactive with future expiration",
			url:  ShortURL{IsActive: false, ExpiresAt: &future},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.url.ResolvableAt(now)

			assert.Equal(t, tt.want, got)
		})
	}
}
