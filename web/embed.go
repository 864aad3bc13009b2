package web

import "embed"

// Templates embeds page layouts, partials, dashboard panels and the quote
// PDF document.
//
//go:embed templates/pages/*.html templates/partials/*.html templates/panels/*.html templates/pdf/*.html
var Templates embed.FS

// Static embeds the stylesheet and other browser assets.
//
//go:embed static/**/*
var Static embed.FS
