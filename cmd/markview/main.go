package main

import (
	"context"
	"flag"
	"os"

	"github.com/danmuck/markview/internal/api"
	"github.com/danmuck/markview/internal/config"
	"github.com/danmuck/markview/internal/logging"
	"github.com/danmuck/markview/internal/observability"
	"github.com/danmuck/markview/internal/site"
	"github.com/danmuck/markview/internal/views"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/markview/config.toml", "path to markview config")
	render := flag.String("render", "", "render one hash path (e.g. \"#/essays/3\") to stdout and exit")
	student := flag.String("student", "", "student index to select when rendering a marking tool")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.InitLogger("markview")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load markview config")
	}
	log.Info().Str("path", *configPath).Str("backend", cfg.BackendURL).Msg("loaded markview config")

	renderer, err := newRenderer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build views")
	}

	if *render != "" {
		page, err := renderOnce(context.Background(), renderer, *render, *student, os.Stdout)
		if err != nil {
			log.Fatal().Err(err).Msg("render failed")
		}
		if page.Failed() {
			os.Exit(1)
		}
		return
	}

	server := site.Appear(cfg.Name, cfg.Addr, cfg.CorsOrigins, renderer)
	log.Info().Str("name", server.Name).Str("addr", server.Addr).Msg("markview started")
	if err := server.Serve(); err != nil {
		log.Fatal().Err(err).Msg("markview stopped")
	}
}

func newRenderer(cfg config.Config) (*site.Renderer, error) {
	builder, err := views.New(cfg.SiteTitle)
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.BackendTimeout),
		api.WithNode(cfg.Name),
	)
	return site.NewRenderer(client, builder), nil
}
