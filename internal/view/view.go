// Package view renders a client.State as plain text for the terminal browser.
// Rendering is pure: the same state always produces the same output.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fleveque/image-haven/internal/client"
	"github.com/fleveque/image-haven/internal/model"
)

// LoadingText is shown under the grid while a fetch is in flight.
const LoadingText = "Loading more wallpapers..."

// Render writes the whole screen: top bar, search panel, highlighted grid,
// main grid, loading line and, when one is open, the modal.
func Render(w io.Writer, s client.State) error {
	var b strings.Builder

	renderTopBar(&b)
	renderSearchPanel(&b, s)

	if len(s.Highlighted) > 0 {
		b.WriteString("\nHighlighted Wallpapers from Recommended Theme\n")
		renderGrid(&b, s.Highlighted, 0)
	}

	fmt.Fprintf(&b, "\nWallpapers for %q (page %d)\n", s.ActiveQuery, s.Page)
	// Main-grid numbers continue after the highlighted ones so `open <n>`
	// addresses every visible card.
	renderGrid(&b, s.Wallpapers, len(s.Highlighted))

	if s.Loading {
		b.WriteString(LoadingText + "\n")
	}

	if s.Active != nil {
		renderModal(&b, *s.Active, isFavorite(s.Favorites, s.Active.URL))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Card returns the wallpaper behind card number n (1-based, highlighted first).
func Card(s client.State, n int) (model.Wallpaper, bool) {
	i := n - 1
	if i < 0 {
		return model.Wallpaper{}, false
	}
	if i < len(s.Highlighted) {
		return s.Highlighted[i], true
	}
	i -= len(s.Highlighted)
	if i < len(s.Wallpapers) {
		return s.Wallpapers[i], true
	}
	return model.Wallpaper{}, false
}

func renderTopBar(b *strings.Builder) {
	// Login and Sign Up are decoration; there are no accounts.
	b.WriteString("Image Haven   Home  Explore  About   |   Login  Sign Up\n")
	b.WriteString(strings.Repeat("=", 56) + "\n")
}

func renderSearchPanel(b *strings.Builder, s client.State) {
	fmt.Fprintf(b, "Search: [%s]   (Search) (Get AI Suggestion)\n", s.Query)

	if len(s.History) > 0 {
		b.WriteString("\nPrevious Searches:\n")
		for _, term := range s.History {
			fmt.Fprintf(b, "  %s\n", term)
		}
	}

	if s.Recommendation != "" {
		b.WriteString("\nAI Recommendation\n")
		fmt.Fprintf(b, "  %s\n", s.Recommendation)
	}
}

func renderGrid(b *strings.Builder, wallpapers []model.Wallpaper, offset int) {
	if len(wallpapers) == 0 {
		b.WriteString("  (no wallpapers)\n")
		return
	}
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for i, wp := range wallpapers {
		fmt.Fprintf(tw, "  [%d]\t%s\t%s\t%s\n", offset+i+1, wp.Source, wp.Photographer, wp.URL)
	}
	_ = tw.Flush()
}

func renderModal(b *strings.Builder, wp model.Wallpaper, favorite bool) {
	action := "Favorite"
	if favorite {
		action = "Unfavorite"
	}
	b.WriteString("\n+" + strings.Repeat("-", 55) + "\n")
	fmt.Fprintf(b, "| %s\n", wp.FullURL())
	fmt.Fprintf(b, "| %s by %s\n", wp.Source, wp.Photographer)
	fmt.Fprintf(b, "| (View Source: %s)  (%s)  (x close)\n", wp.Source, action)
	b.WriteString("+" + strings.Repeat("-", 55) + "\n")
}

func isFavorite(favorites []string, url string) bool {
	for _, f := range favorites {
		if f == url {
			return true
		}
	}
	return false
}
