package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/kafka-flow-monitoring/flow"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/common"
	"github.com/iulianpascalau/kafka-flow-monitoring/services/aggregation/storage"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	metrics        *serverMetrics
	listenAddr     string
	staticDir      string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ReportPayload represents the incoming JSON body on /api/report
type ReportPayload struct {
	Agent string `json:"agent"`
	Flows map[string]struct {
		Kind    string             `json:"kind"`
		Metrics flow.MetricsRecord `json:"metrics"`
	} `json:"flows"`
}

// FlowTableResponse is the body returned for a scope's flow table
type FlowTableResponse struct {
	Scope      string            `json:"scope"`
	Kind       flow.ScopeKind    `json:"kind"`
	RecordedAt int64             `json:"recordedAt"`
	Labels     map[string]string `json:"labels"`
	Rows       []flow.DisplayRow `json:"rows"`
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress  string
	StaticDir      string
	Storage        Storage
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		storage:        args.Storage,
		metrics:        newServerMetrics(),
		listenAddr:     args.ListenAddress,
		staticDir:      args.StaticDir,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	// Agent reporting endpoint
	api.POST("/report", s.handleReport)

	// Console endpoints
	api.GET("/flows", s.handleListFlows)
	api.GET("/flows/:scope", s.handleGetFlowTable)
	api.DELETE("/flows/:scope", s.handleDeleteFlow)
	api.GET("/columns", s.handleGetColumns)
	api.GET("/labels/:key", s.handleGetLabel)

	s.router.GET("/metrics", gin.WrapH(s.metrics.handler()))

	// Serve static files from the console build if configured
	if s.staticDir != "" {
		log.Info("serving static files", "dir", s.staticDir)
		s.router.Static("/static", path.Join(s.staticDir, "static"))
		s.router.StaticFile("/favicon.ico", path.Join(s.staticDir, "favicon.ico"))

		// NoRoute for SPA fallback
		s.router.NoRoute(func(c *gin.Context) {
			// If request is for an /api route that doesn't exist, return 404
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "api route not found"})
				return
			}
			// Otherwise serve index.html for CSR
			c.File(path.Join(s.staticDir, "index.html"))
		})
	}
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return s.storage.Close()
}

// --- Handlers ---

func (s *server) handleReport(c *gin.Context) {
	var payload ReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.metrics.reportsTotal.WithLabelValues(statusError).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	recordedAt := time.Now().Unix()
	ctx := c.Request.Context()

	log.Debug("received report", "agent", payload.Agent, "sender", c.Request.RemoteAddr, "num scopes", len(payload.Flows))

	accepted := make([]string, 0, len(payload.Flows))
	rejected := make([]string, 0)
	for name, f := range payload.Flows {
		scope := flow.Scope{
			Name: name,
			Kind: flow.ScopeKind(f.Kind),
		}

		err := s.saveFlow(ctx, payload.Agent, scope, f.Metrics, recordedAt)
		if err != nil {
			log.Warn("failed to save flow record", "agent", payload.Agent, "scope", name, "error", err)
			s.metrics.scopesRejected.Inc()
			rejected = append(rejected, name)
			// Continue with others
			continue
		}

		accepted = append(accepted, name)
	}

	sort.Strings(accepted)
	sort.Strings(rejected)

	s.metrics.reportsTotal.WithLabelValues(statusSuccess).Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true, "accepted": accepted, "rejected": rejected})
}

func (s *server) saveFlow(ctx context.Context, agent string, scope flow.Scope, record flow.MetricsRecord, recordedAt int64) error {
	if len(scope.Name) == 0 {
		return errors.New("empty scope name")
	}
	if !scope.Kind.IsValid() {
		return errors.New("invalid scope kind " + string(scope.Kind))
	}

	err := record.Validate()
	if err != nil {
		return err
	}

	return s.storage.SaveFlow(ctx, agent, scope, record, recordedAt)
}

func (s *server) handleListFlows(c *gin.Context) {
	scopes, err := s.storage.ListScopes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if scopes == nil {
		scopes = make([]common.ScopeInfo, 0)
	}

	c.JSON(http.StatusOK, gin.H{"scopes": scopes})
}

func (s *server) handleGetFlowTable(c *gin.Context) {
	name := c.Param("scope")

	spec, err := flow.ParseSortSpec(c.Query("sort"), c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var snapshot *common.FlowSnapshot
	source := flow.SourceFunc(func(ctx context.Context) (flow.MetricsRecord, error) {
		var errGet error
		snapshot, errGet = s.storage.GetFlow(ctx, name)
		if errGet != nil {
			return nil, errGet
		}
		if snapshot == nil {
			return nil, storage.ErrScopeNotFound
		}

		return snapshot.Record, nil
	})

	table, err := flow.NewTable(source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows, err := table.Rows(c.Request.Context(), spec)
	if errors.Is(err, storage.ErrScopeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scope not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.rowsProjected.Add(float64(len(rows)))

	c.JSON(http.StatusOK, FlowTableResponse{
		Scope:      snapshot.Scope.Name,
		Kind:       snapshot.Scope.Kind,
		RecordedAt: snapshot.RecordedAt,
		Labels:     flow.Labels(rows),
		Rows:       rows,
	})
}

func (s *server) handleDeleteFlow(c *gin.Context) {
	name := c.Param("scope")
	err := s.storage.DeleteScope(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleGetColumns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"columns": flow.Columns()})
}

func (s *server) handleGetLabel(c *gin.Context) {
	key := c.Param("key")
	c.JSON(http.StatusOK, gin.H{"key": key, "label": flow.LabelFor(key)})
}
