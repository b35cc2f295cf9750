package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"

	"github.com/yamato-denko/koutei/pkg/application"
)

// Only the handshake and idle keep-alives get deadlines. Read and write
// timeouts stay unset: the feed holds websocket connections open for the
// lifetime of the client, and a write deadline would sever them.
const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// HTTPServer assembles the registered controllers and middleware into a mux
// router and runs it. Controllers and middleware are frozen at construction;
// register everything on the application before calling NewHTTPServer.
type HTTPServer struct {
	controllers             []application.Controller
	middlewares             []mux.MiddlewareFunc
	notFoundHandler         http.Handler
	methodNotAllowedHandler http.Handler

	srv *http.Server
}

func NewHTTPServer(
	app application.Application,
	notFoundHandler, methodNotAllowedHandler http.Handler,
) *HTTPServer {
	return &HTTPServer{
		controllers:             app.Controllers(),
		middlewares:             app.Middleware(),
		notFoundHandler:         notFoundHandler,
		methodNotAllowedHandler: methodNotAllowedHandler,
	}
}

// Handler builds the full middleware-wrapped, gzip-compressed handler. The
// 404/405 handlers bypass mux's Use chain, so they are wrapped by hand to get
// the same logging and context provisioning as matched routes.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.middlewares...)
	for _, controller := range s.controllers {
		controller.Register(r)
	}

	notFound := s.notFoundHandler
	notAllowed := s.methodNotAllowedHandler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		notFound = s.middlewares[i](notFound)
		notAllowed = s.middlewares[i](notAllowed)
	}
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notAllowed

	return gziphandler.GzipHandler(r)
}

// Start serves until the listener fails or Shutdown is called. A shutdown
// initiated elsewhere surfaces here as a nil error.
func (s *HTTPServer) Start(socketAddress string) error {
	s.srv = &http.Server{
		Addr:              socketAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires. Open websocket
// connections do not drain; the process exit closes them.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
