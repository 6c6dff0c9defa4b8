package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		personality string
		want        string
	}{
		{"notetaker friendly", "Notetaker", "Very friendly", "https://source.unsplash.com/300x400/?notes,friendly,portrait"},
		{"crm default personality", "Chat with CRM", "", "https://source.unsplash.com/300x400/?customer-service,professional,portrait"},
		{"role match is exact", "notetaker", "creative", "https://source.unsplash.com/300x400/?customer-service,creative,portrait"},
		{"unknown role", "Anything", "assertive", "https://source.unsplash.com/300x400/?customer-service,assertive,portrait"},
		{"case insensitive", "Notetaker", "SUPPORTIVE and calm", "https://source.unsplash.com/300x400/?notes,supportive,portrait"},
		{"substring inside token", "Notetaker", "hyperanalytical", "https://source.unsplash.com/300x400/?notes,analytical,portrait"},
		{"portuguese text has no keyword", "Notetaker", "Amigável e analítica", "https://source.unsplash.com/300x400/?notes,professional,portrait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvatarURL(tt.role, tt.personality))
		})
	}
}

func TestPersonalityKeywordOrder(t *testing.T) {
	// The fixed candidate order decides, not the position in the text.
	assert.Equal(t, "friendly", personalityKeyword("supportive, creative and friendly"))
	assert.Equal(t, "professional", personalityKeyword("friendly but professional"))
	assert.Equal(t, "creative", personalityKeyword("assertive creative"))
}

func TestPersonalityKeywordIdempotent(t *testing.T) {
	for _, p := range []string{"", "   ", "analytical", "Creative\tassertive"} {
		assert.Equal(t, personalityKeyword(p), personalityKeyword(p))
	}
	assert.Equal(t, "professional", personalityKeyword("   "))
}

func TestAvatarURLForEndpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/300x400/?notes,creative,portrait",
		avatarURLFor("http://localhost:9000/", "Notetaker", "creative"))
	assert.Equal(t, AvatarURL("Notetaker", "x"), avatarURLFor("", "Notetaker", "x"))
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadAvatar(t *testing.T) {
	body := encodePNG(t, solidImage(4, 6, color.White))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: time.Second}

	t.Run("success", func(t *testing.T) {
		msg := loadAvatar(client, "agent-1", srv.URL+"/ok")()
		ready, ok := msg.(AvatarReadyMsg)
		require.True(t, ok)
		require.NoError(t, ready.Err)
		assert.Equal(t, "agent-1", ready.AgentID)
		require.NotNil(t, ready.Image)
		assert.Equal(t, 4, ready.Image.Bounds().Dx())
	})

	t.Run("http error", func(t *testing.T) {
		ready := loadAvatar(client, "agent-2", srv.URL+"/missing")().(AvatarReadyMsg)
		assert.Error(t, ready.Err)
		assert.Nil(t, ready.Image)
	})
}

func TestFetchAvatarUndecodable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	img, err := fetchAvatar(srv.Client(), srv.URL)
	assert.Nil(t, img)
	assert.ErrorContains(t, err, "decode")
}

func TestLoadAssetAvatar(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, loadAssetAvatar(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "avatar.png"), encodePNG(t, solidImage(2, 2, color.White)), 0644))
	img := loadAssetAvatar(dir)
	require.NotNil(t, img)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestFallbackAvatar(t *testing.T) {
	assert.Nil(t, fallbackAvatar(nil, "Notetaker"))

	base := solidImage(2, 2, color.White)
	notes := fallbackAvatar(base, "Notetaker").(*image.RGBA)
	crm := fallbackAvatar(base, "Chat with CRM").(*image.RGBA)

	// White tinted by the role color keeps the role color.
	assert.Equal(t, color.RGBA{R: 110, G: 66, B: 202, A: 255}, notes.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 99, B: 71, A: 255}, crm.RGBAAt(1, 1))
}

func TestRenderHalfBlockAvatar(t *testing.T) {
	t.Run("placeholder without image", func(t *testing.T) {
		out := renderHalfBlockAvatar(nil, 10, 4)
		assert.Contains(t, out, "?")
		assert.Len(t, strings.Split(out, "\n"), 4)
	})

	t.Run("one line per row", func(t *testing.T) {
		out := renderHalfBlockAvatar(solidImage(8, 8, color.Black), 6, 3)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, 6, strings.Count(lines[0], "▄"))
	})
}

func TestAvatarSlotCache(t *testing.T) {
	s := &avatarSlot{}
	first := s.render(6, 3)
	assert.Contains(t, first, "?")
	assert.Equal(t, first, s.render(6, 3))

	s.set(solidImage(4, 4, color.White))
	assert.Empty(t, s.cached)
	assert.Contains(t, s.render(6, 3), "▄")
}
