package views

import "embed"

//go:embed templates/*.tmpl static/*
var ContentFS embed.FS
