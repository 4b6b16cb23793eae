package templates

import (
	"context"
	_ "embed"
	"html"
	"strings"
	"time"

	"thirdcoast.systems/framefetch/cmd/web/ctxkeys"
	"thirdcoast.systems/framefetch/internal/config"
	"thirdcoast.systems/framefetch/internal/downloader"
	"thirdcoast.systems/framefetch/pkg/utils/format"
	"thirdcoast.systems/framefetch/pkg/utils/markdown"
)

// PageData is everything the shell needs to render a visitor's page.
type PageData struct {
	Form      downloader.State
	Qualities []downloader.QualityOption
}

type NavItem struct {
	Name string
	Href string
	Icon string
}

var NavItems = []NavItem{
	{Name: "Home", Href: "#home", Icon: "⌂"},
	{Name: "Download", Href: "#download", Icon: "⬇"},
	{Name: "About", Href: "#about", Icon: "ⓘ"},
}

type Feature struct {
	Text string
	Icon string
	Tone string
}

var Features = []Feature{
	{Text: "100% Secure", Icon: "🛡", Tone: "green"},
	{Text: "Ultra Fast", Icon: "⚡", Tone: "orange"},
	{Text: "Multi-Platform", Icon: "🌐", Tone: "blue"},
	{Text: "HD Quality", Icon: "★", Tone: "purple"},
}

type FooterLink struct {
	Name string
	Href string
	Icon string
}

type FooterSection struct {
	Title string
	Links []FooterLink
}

var FooterSections = []FooterSection{
	{
		Title: "Product",
		Links: []FooterLink{
			{Name: "Video Downloader", Href: "#download", Icon: "🎬"},
			{Name: "Audio Extractor", Href: "#download", Icon: "🎵"},
			{Name: "Quality Selector", Href: "#download", Icon: "⚡"},
		},
	},
	{
		Title: "Support",
		Links: []FooterLink{
			{Name: "About", Href: "#about", Icon: "❓"},
			{Name: "Supported Platforms", Href: "/api/platforms", Icon: "📚"},
			{Name: "Service Health", Href: "/healthz", Icon: "💬"},
		},
	},
}

type PlatformCard struct {
	Name  string
	Icon  string
	Count string
}

var FooterPlatforms = []PlatformCard{
	{Name: "YouTube", Icon: "▶", Count: "2B+ videos"},
	{Name: "TikTok", Icon: "♪", Count: "1B+ videos"},
	{Name: "Facebook", Icon: "f", Count: "500M+ videos"},
	{Name: "Instagram", Icon: "◎", Count: "300M+ reels"},
}

//go:embed about.md
var aboutSource []byte

var about = markdown.MustLoad(aboutSource)

func aboutHTML() string {
	return string(about.Render())
}

const descriptionLength = 160

// pageDescription is the about copy flattened to one line for the meta tag.
func pageDescription() string {
	text := html.UnescapeString(string(about.PlainText()))
	return format.Truncate(strings.Join(strings.Fields(text), " "), descriptionLength)
}

func copyrightYear() string {
	return time.Now().Format("2006")
}

func datastarScriptURL(ctx context.Context) string {
	if v, ok := ctx.Value(ctxkeys.DatastarScriptURL).(string); ok && v != "" {
		return v
	}
	return config.DefaultDatastarScriptURL
}

func backendConfigured(ctx context.Context) bool {
	v, _ := ctx.Value(ctxkeys.BackendConfigured).(bool)
	return v
}

func backendStatus(ctx context.Context) string {
	if backendConfigured(ctx) {
		return "Status: Online"
	}
	return "Status: Not configured"
}
