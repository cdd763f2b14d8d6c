package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	bannerColorConstant = "6"
	noticeColorConstant = "2"
	bannerArtConstant   = `  ____   ___   _____            ____   _   _   _____      _      _____
 / ___| |_ _| |_   _|          / ___| | | | | | ____|    / \    |_   _|
| |  _   | |    | |    _____  | |     | |_| | |  _|     / _ \     | |
| |_| |  | |    | |   |_____| | |___  |  _  | | |___   / ___ \    | |
 \____| |___|   |_|            \____| |_| |_| |_____| /_/   \_\   |_|`
)

// BannerRenderer styles the startup banner and short notices.
type BannerRenderer struct {
	bannerStyle lipgloss.Style
	noticeStyle lipgloss.Style
}

// NewBannerRenderer constructs a BannerRenderer with the default palette.
func NewBannerRenderer() *BannerRenderer {
	return &BannerRenderer{
		bannerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(bannerColorConstant)).
			PaddingTop(1).
			PaddingBottom(1),
		noticeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(noticeColorConstant)),
	}
}

// Banner returns the styled GIT-CHEAT banner.
func (renderer *BannerRenderer) Banner() string {
	return renderer.bannerStyle.Render(bannerArtConstant)
}

// Notice styles a single confirmation line.
func (renderer *BannerRenderer) Notice(message string) string {
	return renderer.noticeStyle.Render(strings.TrimSpace(message))
}
