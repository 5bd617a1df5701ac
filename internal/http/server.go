package httpapp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	_ "hnserve/docs" // swagger docs

	"hnserve/internal/config"
	"hnserve/internal/feed"
	"hnserve/internal/rate"
	"hnserve/internal/resolve"
)

// feedAliases maps short names onto the canonical upstream feed names, which
// are accepted as-is.
var feedAliases = map[string]string{
	"top":  "topstories",
	"new":  "newstories",
	"best": "beststories",
	"ask":  "askstories",
	"show": "showstories",
	"job":  "jobstories",
	"jobs": "jobstories",

	"topstories":  "topstories",
	"newstories":  "newstories",
	"beststories": "beststories",
	"askstories":  "askstories",
	"showstories": "showstories",
	"jobstories":  "jobstories",
}

type Server struct {
	resolver     *resolve.Resolver
	orchestrator *feed.Orchestrator
	limiter      rate.Limiter
	cfg          config.Config
	logger       *slog.Logger
}

func NewServer(resolver *resolve.Resolver, orchestrator *feed.Orchestrator, limiter rate.Limiter, cfg config.Config, logger *slog.Logger) *Server {
	return &Server{
		resolver:     resolver,
		orchestrator: orchestrator,
		limiter:      limiter,
		cfg:          cfg,
		logger:       logger.With("component", "http"),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/swagger/") {
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	}

	if ok, retry := s.limiter.Allow(clientIP(r)); !ok {
		writeRateLimit(w, retry)
		return
	}

	segments := splitPath(r.URL.Path)
	switch {
	case len(segments) == 0:
		s.handleWelcome(w, r)
	case len(segments) == 1 && segments[0] == "openapi.json":
		s.serveOpenAPIJSON(w, r)
	case len(segments) == 2 && segments[0] == "item":
		s.handleItem(w, r, segments[1])
	case len(segments) == 2 && segments[0] == "user":
		s.handleUser(w, r, segments[1])
	case len(segments) == 1 && feedAliases[segments[0]] != "":
		s.handleFeed(w, r, feedAliases[segments[0]])
	default:
		notFound(w)
	}
}

// handleWelcome godoc
//
//	@Summary		Liveness and welcome payload
//	@Description	Static JSON listing the available endpoints
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/ [get]
func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "hnserve",
		"description": "read-only Hacker News API facade",
		"endpoints": []string{
			"/item/{id}",
			"/item/{id}?comments=1",
			"/user/{handle}",
			"/user/{handle}?submitted=1",
			"/{feedname}",
			"/{feedname}?ranked=1",
		},
	})
}

// handleItem godoc
//
//	@Summary		Get an item
//	@Description	Single item by id. Text is normalized to plain markdown, the URL is percent-encoded. With comments=1 the full comment tree is resolved in place of the raw kid ids.
//	@Tags			Items
//	@Produce		json
//	@Param			id			path		int		true	"Item id"
//	@Param			comments	query		bool	false	"Resolve the full comment tree"
//	@Success		200			{object}	model.Item
//	@Failure		400			{object}	map[string]string	"Invalid id"
//	@Failure		502			{object}	map[string]string	"Upstream unavailable"
//	@Router			/item/{id} [get]
func (s *Server) handleItem(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var result any
	if boolParam(r, "comments") {
		result, err = s.resolver.ItemTree(r.Context(), id)
	} else {
		result, err = s.resolver.Item(r.Context(), id)
	}
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleUser godoc
//
//	@Summary		Get a user
//	@Description	User record by handle, about text normalized. With submitted=1 every submitted id is resolved into a shallow item, original order preserved.
//	@Tags			Users
//	@Produce		json
//	@Param			handle		path		string	true	"User handle"
//	@Param			submitted	query		bool	false	"Resolve submitted ids into shallow items"
//	@Success		200			{object}	model.UserDetail
//	@Failure		502			{object}	map[string]string	"Upstream unavailable"
//	@Router			/user/{handle} [get]
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request, handle string) {
	var result any
	var err error
	if boolParam(r, "submitted") {
		result, err = s.resolver.UserDetail(r.Context(), handle)
	} else {
		result, err = s.resolver.User(r.Context(), handle)
	}
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleFeed godoc
//
//	@Summary		Get a feed
//	@Description	Shallow items in upstream id order. With ranked=1 the site-ranked listing is scraped instead; when scraping degrades the direct path substitutes in full.
//	@Tags			Feeds
//	@Produce		json
//	@Param			feedname	path		string	true	"Feed name"	Enums(topstories, newstories, beststories, askstories, showstories, jobstories)
//	@Param			ranked		query		bool	false	"Site-ranked order via the listing pages"
//	@Success		200			{array}		model.Item
//	@Failure		502			{object}	map[string]string	"Upstream unavailable"
//	@Router			/{feedname} [get]
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, feedName string) {
	if boolParam(r, "ranked") {
		summaries, items, err := s.orchestrator.Ranked(r.Context(), feedName)
		if err != nil {
			s.writeResolveError(w, err)
			return
		}
		if summaries != nil {
			writeJSON(w, http.StatusOK, summaries)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := s.resolver.Feed(r.Context(), feedName)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

// writeResolveError maps resolver failures onto the response contract:
// missing entities answer 200 with an empty body, upstream outages surface
// as a gateway failure.
func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	if errors.Is(err, resolve.ErrNotFound) {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusBadGateway, err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": int(retry.Seconds()),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func boolParam(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
