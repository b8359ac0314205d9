package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	"storyboard/pkg/coref"
	"storyboard/pkg/diff"
	"storyboard/pkg/pipeline"
	"storyboard/pkg/schema"
)

func (s *Server) bindStory(c echo.Context, route string) (schema.StoryRequest, error) {
	var req schema.StoryRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid JSON in "+route, "error", err)
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	return req, nil
}

// result runs the pipeline for text, sharing runs of identical stories.
// ?refresh=true bypasses the cache.
func (s *Server) result(c echo.Context, text string) (*pipeline.Result, error) {
	ctx := c.Request().Context()
	if strings.TrimSpace(text) == "" {
		return s.Pipeline.Resolve(ctx, text)
	}
	if refresh, _ := strconv.ParseBool(c.QueryParam("refresh")); refresh {
		return s.results.Refresh(ctx, text)
	}
	return s.results.Get(ctx, text)
}

func pipelineError(route string, err error) error {
	switch {
	case errors.Is(err, pipeline.ErrAnnotation), errors.Is(err, pipeline.ErrCoref):
		log.Error("model failure in "+route, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Error("pipeline failed in "+route, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// POST /api/prompts
func (s *Server) handlePostPrompts(c echo.Context) error {
	req, err := s.bindStory(c, "/api/prompts")
	if err != nil {
		return err
	}
	res, err := s.result(c, req.Text)
	if err != nil {
		return pipelineError("/api/prompts", err)
	}
	id := ksuid.New().String()
	log.Info("prompts ready", "id", id, "chars", len(req.Text), "prompts", len(res.Prompts))
	return c.JSON(http.StatusOK, schema.PromptsResponse{ID: id, Prompts: res.Prompts})
}

// POST /api/resolve
func (s *Server) handlePostResolve(c echo.Context) error {
	req, err := s.bindStory(c, "/api/resolve")
	if err != nil {
		return err
	}
	res, err := s.result(c, req.Text)
	if err != nil {
		return pipelineError("/api/resolve", err)
	}

	resp := schema.ResolveResponse{
		ID:         ksuid.New().String(),
		Original:   res.Original,
		Normalized: res.Normalized.Text,
		Translated: res.Normalized.Translated,
		Resolved:   res.Resolved,
		Cleaned:    res.Cleaned,
		Clusters:   mentionClusters(res),
		Changes:    diff.Changes(diff.Words(res.Normalized.Text, res.Resolved)),
		Prompts:    res.Prompts,
	}
	log.Info("resolve trace ready", "id", resp.ID, "clusters", len(resp.Clusters), "changes", len(resp.Changes))
	return c.JSON(http.StatusOK, resp)
}

// POST /api/storyboard
func (s *Server) handlePostStoryboard(c echo.Context) error {
	req, err := s.bindStory(c, "/api/storyboard")
	if err != nil {
		return err
	}
	res, err := s.result(c, req.Text)
	if err != nil {
		return pipelineError("/api/storyboard", err)
	}

	resolution := req.Resolution
	if resolution == "" {
		resolution = s.Resolution
	}
	frames, used := s.Framer.Frames(res.Prompts, resolution)
	id := ksuid.New().String()
	log.Info("storyboard ready", "id", id, "frames", len(frames), "resolution", used)
	return c.JSON(http.StatusOK, schema.StoryboardResponse{ID: id, Resolution: used, Frames: frames})
}

func mentionClusters(res *pipeline.Result) []schema.MentionCluster {
	out := make([]schema.MentionCluster, 0, len(res.Clusters))
	if res.Document == nil {
		return out
	}
	rewrites := coref.Rewrites(res.Document, res.Clusters)
	for _, cl := range res.Clusters {
		mc := schema.MentionCluster{Mentions: make([]schema.ClusterMention, 0, len(cl))}
		if head, ok := coref.Head(res.Document, cl); ok {
			mc.Head = res.Document.SpanText(head)
		}
		for _, m := range cl {
			_, rewritten := rewrites[m]
			mc.Mentions = append(mc.Mentions, schema.ClusterMention{
				Text:      res.Document.SpanText(m),
				Span:      m,
				Rewritten: rewritten,
			})
		}
		out = append(out, mc)
	}
	return out
}
