package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Keyword Resolver ──────────────────────────────────────────────

const (
	defaultAvatarEndpoint     = "https://source.unsplash.com"
	notetakerRole             = "Notetaker"
	notetakerRoleKeyword      = "notes"
	defaultRoleKeyword        = "customer-service"
	defaultPersonalityKeyword = "professional"
)

// Scan order matters: the earliest keyword found wins.
var personalityKeywords = []string{
	"professional",
	"friendly",
	"analytical",
	"creative",
	"assertive",
	"supportive",
}

func roleKeyword(role string) string {
	if role == notetakerRole {
		return notetakerRoleKeyword
	}
	return defaultRoleKeyword
}

// personalityKeyword matches English keywords only, whatever language the
// description is written in.
func personalityKeyword(personality string) string {
	words := strings.Fields(strings.ToLower(personality))
	for _, kw := range personalityKeywords {
		for _, w := range words {
			if strings.Contains(w, kw) {
				return kw
			}
		}
	}
	return defaultPersonalityKeyword
}

// AvatarURL builds the placeholder image query for an agent against the
// default image service.
func AvatarURL(role, personality string) string {
	return avatarURLFor(defaultAvatarEndpoint, role, personality)
}

func avatarURLFor(endpoint, role, personality string) string {
	if endpoint == "" {
		endpoint = defaultAvatarEndpoint
	}
	return fmt.Sprintf("%s/300x400/?%s,%s,portrait",
		strings.TrimRight(endpoint, "/"), roleKeyword(role), personalityKeyword(personality))
}

// ── Async Loading ─────────────────────────────────────────────────

// maxAvatarBytes caps how much of a response body is decoded.
const maxAvatarBytes = 8 << 20

// AvatarReadyMsg is sent when an agent's avatar fetch finishes. Image is nil
// when the fetch failed.
type AvatarReadyMsg struct {
	AgentID string
	Image   image.Image
	Err     error
}

// loadAvatar fetches an avatar once in the background. It is never retried.
func loadAvatar(client *http.Client, agentID, url string) tea.Cmd {
	return func() tea.Msg {
		img, err := fetchAvatar(client, url)
		return AvatarReadyMsg{AgentID: agentID, Image: img, Err: err}
	}
}

func fetchAvatar(client *http.Client, url string) (image.Image, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar %s: %s", url, resp.Status)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("avatar %s: decode: %w", url, err)
	}
	return img, nil
}

// ── Fallback Avatar ───────────────────────────────────────────────

// loadAssetAvatar loads the bundled avatar from the assets directory.
func loadAssetAvatar(dir string) image.Image {
	for _, name := range []string{"avatar.jpg", "avatar.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		return img
	}
	return nil
}

func roleTint(role string) color.RGBA {
	if role == notetakerRole {
		return color.RGBA{R: 110, G: 66, B: 202, A: 255}
	}
	return color.RGBA{R: 255, G: 99, B: 71, A: 255}
}

// fallbackAvatar tints the bundled avatar for a role, or returns nil when
// there is no bundled avatar.
func fallbackAvatar(base image.Image, role string) image.Image {
	if base == nil {
		return nil
	}
	return tintImage(base, roleTint(role))
}

// tintImage converts an image to grayscale then multiplies by the tint color.
func tintImage(img image.Image, tint color.RGBA) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			gray := (r*299 + g*587 + b*114) / 1000
			nr := (gray * uint32(tint.R)) / 255
			ng := (gray * uint32(tint.G)) / 255
			nb := (gray * uint32(tint.B)) / 255
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(nr >> 8),
				G: uint8(ng >> 8),
				B: uint8(nb >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// ── Half-Block Rendering ──────────────────────────────────────────

// avatarSlot holds one agent's avatar and its last half-block render.
type avatarSlot struct {
	img        image.Image
	cached     string
	cachedCols int
	cachedRows int
}

// render returns a cached half-block render, recomputing only when
// dimensions change.
func (s *avatarSlot) render(cols, rows int) string {
	if s.cached != "" && cols == s.cachedCols && rows == s.cachedRows {
		return s.cached
	}
	s.cached = renderHalfBlockAvatar(s.img, cols, rows)
	s.cachedCols = cols
	s.cachedRows = rows
	return s.cached
}

func (s *avatarSlot) set(img image.Image) {
	s.img = img
	s.cached = ""
}

// renderHalfBlockAvatar renders an image as colored half-block characters.
func renderHalfBlockAvatar(img image.Image, cols, rows int) string {
	if img == nil {
		return lipgloss.NewStyle().
			Width(cols).Height(rows).
			Foreground(colorTextDim).
			Align(lipgloss.Center, lipgloss.Center).
			Render("?")
	}

	pixelH := rows * 2
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	var buf strings.Builder
	for py := 0; py < pixelH; py += 2 {
		for px := 0; px < cols; px++ {
			srcX := bounds.Min.X + (px * srcW / cols)
			srcY1 := bounds.Min.Y + (py * srcH / pixelH)
			srcY2 := bounds.Min.Y + ((py + 1) * srcH / pixelH)

			r1, g1, b1, _ := img.At(srcX, srcY1).RGBA()
			r2, g2, b2, _ := img.At(srcX, srcY2).RGBA()

			fmt.Fprintf(&buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▄",
				r2>>8, g2>>8, b2>>8,
				r1>>8, g1>>8, b1>>8,
			)
		}
		buf.WriteString("\x1b[m")
		if py+2 < pixelH {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
