package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/danmuck/markview/internal/router"
	"github.com/danmuck/markview/internal/site"
	"github.com/danmuck/markview/internal/views"
)

// renderOnce builds the document for a location fragment and writes it to w.
func renderOnce(ctx context.Context, renderer *site.Renderer, fragment, student string, w io.Writer) (views.Page, error) {
	query := url.Values{}
	if student != "" {
		query.Set("student", student)
	}
	page := renderer.RenderPath(ctx, router.ParseHash(fragment), query)
	doc, err := renderer.Views().Document(page)
	if err != nil {
		return page, err
	}
	if _, err := w.Write(doc); err != nil {
		return page, fmt.Errorf("write document: %w", err)
	}
	return page, nil
}
