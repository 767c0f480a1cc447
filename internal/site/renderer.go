package site

import (
	"context"
	"net/url"

	"github.com/danmuck/markview/internal/api"
	"github.com/danmuck/markview/internal/router"
	"github.com/danmuck/markview/internal/views"
	"github.com/rs/zerolog/log"
)

// Backend is the subset of the API client the page pipeline needs.
type Backend interface {
	Subjects(ctx context.Context) ([]api.Subject, error)
	EssaysBySubject(ctx context.Context, subjectID string) (api.EssayListing, error)
	Essay(ctx context.Context, essayID string) (api.EssayDetail, error)
}

var _ Backend = (*api.Client)(nil)

// Renderer resolves a path, performs the single backend fetch its view needs,
// and builds the page. A failed fetch yields the view's fallback page; it never
// returns a partially built one.
type Renderer struct {
	backend Backend
	views   *views.Builder
}

func NewRenderer(backend Backend, builder *views.Builder) *Renderer {
	return &Renderer{backend: backend, views: builder}
}

func (r *Renderer) Views() *views.Builder {
	return r.views
}

// RenderPath builds the page for path. query carries view options such as the
// selected student on the marking tool.
func (r *Renderer) RenderPath(ctx context.Context, path string, query url.Values) views.Page {
	route := router.Resolve(path)
	page, err := r.render(ctx, route, query)
	if err != nil {
		log.Error().
			Str("route", route.String()).
			Err(err).
			Msg("view_render_failed")
		return r.views.Failure(route.Kind)
	}
	return page
}

func (r *Renderer) render(ctx context.Context, route router.Route, query url.Values) (views.Page, error) {
	switch route.Kind {
	case router.KindHome:
		subjects, err := r.backend.Subjects(ctx)
		if err != nil {
			return views.Page{}, err
		}
		return r.views.Home(subjects)
	case router.KindEssayList:
		listing, err := r.backend.EssaysBySubject(ctx, route.ID)
		if err != nil {
			return views.Page{}, err
		}
		return r.views.EssayList(listing)
	case router.KindMarkingTool:
		essay, err := r.backend.Essay(ctx, route.ID)
		if err != nil {
			return views.Page{}, err
		}
		return r.views.MarkingTool(essay, query.Get("student"))
	default:
		return r.views.NotFound(), nil
	}
}
