package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storyboard/pkg/flight"
	"storyboard/pkg/pipeline"
	"storyboard/pkg/storyboard"
)

type Server struct {
	Echo       *echo.Echo
	Pipeline   *pipeline.Pipeline
	Framer     *storyboard.Framer
	Resolution string
	Ctx        context.Context

	results *flight.Cache[string, *pipeline.Result]
}

// NewServer serves p. Identical stories submitted within ttl reuse one run.
func NewServer(ctx context.Context, p *pipeline.Pipeline, f *storyboard.Framer, ttl time.Duration) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if f == nil {
		f = storyboard.NewFramer()
	}
	s := &Server{
		Echo:     e,
		Pipeline: p,
		Framer:   f,
		Ctx:      ctx,
	}
	s.results = flight.NewCache(s.run, ttl)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/prompts", s.handlePostPrompts)       // story -> one prompt per narrative sentence
	api.POST("/resolve", s.handlePostResolve)       // full trace: translation, clusters, diff
	api.POST("/storyboard", s.handlePostStoryboard) // prompts framed for an image generator
}

func (s *Server) run(ctx context.Context, text string) (*pipeline.Result, error) {
	return s.Pipeline.Resolve(ctx, text)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server", "cached", s.results.Len())
	return s.Echo.Shutdown(ctx)
}
