// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package web

import (
	"embed"
	"html/template"
)

//go:embed content/*.html
var contentFS embed.FS

// StaticContent returns the embedded HTML body for a static page such as
// the privacy policy. The second return is false when no such page exists,
// which callers treat as a 404.
//
// The content files ship with the binary and are authored by the site
// operator, so they are trusted HTML.
func StaticContent(name string) (template.HTML, bool) {
	body, err := contentFS.ReadFile("content/" + name + ".html")
	if err != nil {
		return "", false
	}
	return template.HTML(body), true
}
