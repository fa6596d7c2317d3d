package plot

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/chartspec/pkg/logger"
)

//go:embed assets
var staticFiles embed.FS

// DefaultStaleAfter is how long a source may go without updates before /health fails
const DefaultStaleAfter = time.Hour + 10*time.Minute

// HTTPServer defines the interface for an HTTP server the chart server registers on
type HTTPServer interface {
	RegisterHandler(path string, handler http.HandlerFunc)
	RegisterFileServer(path string, fs http.FileSystem)
	Start(ctx context.Context, port int) error
}

// StandardHTTPServer implements HTTPServer over its own ServeMux
type StandardHTTPServer struct {
	mux *http.ServeMux
}

func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{mux: http.NewServeMux()}
}

func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler)
}

func (s *StandardHTTPServer) RegisterFileServer(path string, fs http.FileSystem) {
	s.mux.Handle(path, http.FileServer(fs))
}

// ServeHTTP lets the registered routes be exercised without listening
func (s *StandardHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start listens on port until ctx is canceled
func (s *StandardHTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("chart server: %w", err)
	}
	return nil
}

// Server delivers payloads and composed specs of a PayloadSource over HTTP and WebSocket
type Server struct {
	source         PayloadSource
	log            logger.Logger
	port           int
	debug          bool
	staleAfter     time.Duration
	composeOptions []ComposeOption
	indexHTML      *template.Template
	scriptContent  string
	wsManager      *WebSocketManager
}

// ServerOption defines a function type for configuring a Server instance
type ServerOption func(*Server)

// WithPort sets the listening port
func WithPort(port int) ServerOption {
	return func(s *Server) {
		s.port = port
	}
}

// WithDebug serves the chart script without minification
func WithDebug() ServerOption {
	return func(s *Server) {
		s.debug = true
	}
}

// WithStaleAfter sets how long without updates /health tolerates
func WithStaleAfter(d time.Duration) ServerOption {
	return func(s *Server) {
		s.staleAfter = d
	}
}

// WithComposeOptions applies options to every spec the server composes
func WithComposeOptions(options ...ComposeOption) ServerOption {
	return func(s *Server) {
		s.composeOptions = append(s.composeOptions, options...)
	}
}

// NewServer prepares the page template and chart script and, when the source
// can notify updates, pushes fresh specs to WebSocket clients
func NewServer(source PayloadSource, log logger.Logger, options ...ServerOption) (*Server, error) {
	server := &Server{
		source:     source,
		log:        log,
		port:       8080,
		staleAfter: DefaultStaleAfter,
	}

	for _, option := range options {
		option(server)
	}

	var err error
	server.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	chartJS, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read chart.js: %w", err)
	}

	result := api.Transform(string(chartJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !server.debug,
		MinifyIdentifiers: !server.debug,
		MinifyWhitespace:  !server.debug,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("chart script failed with: %v", result.Errors)
	}
	server.scriptContent = string(result.Code)

	server.wsManager = NewWebSocketManager(log, server.composeSpec)
	if notifier, ok := source.(updateNotifier); ok {
		notifier.Subscribe(server.wsManager.Notify)
	}

	return server, nil
}

// Port returns the configured port
func (s *Server) Port() int {
	return s.port
}

// RegisterHandlers registers all chart routes on the HTTP server
func (s *Server) RegisterHandlers(server HTTPServer) {
	server.RegisterHandler("/assets/chart.js", s.handleScript)
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	server.RegisterHandler("/data", s.handleData)
	server.RegisterHandler("/spec", s.handleSpec)
	server.RegisterHandler("/schema", s.handleSchema)
	server.RegisterHandler("/history", s.handleTradingHistoryData)
	server.RegisterHandler("/health", s.handleHealth)
	server.RegisterHandler("/ws", s.wsManager.HandleWebSocket)
	server.RegisterHandler("/", s.handleIndex)
}

// Start registers the routes and serves them until ctx is canceled
func (s *Server) Start(ctx context.Context, server HTTPServer) error {
	s.RegisterHandlers(server)
	defer s.wsManager.Close()

	s.log.Infof("Chart available at http://localhost:%d", s.port)
	return server.Start(ctx, s.port)
}

// composeSpec validates the pair payload and composes its spec
func (s *Server) composeSpec(ctx context.Context, pair string) (Spec, error) {
	payload, err := s.source.Payload(ctx, pair)
	if err != nil {
		return Spec{}, err
	}

	if err := payload.Validate(); err != nil {
		return Spec{}, fmt.Errorf("%s: %w", pair, err)
	}

	return Compose(payload, s.composeOptions...)
}
