package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server runs the dashboard HTTP server until its context is cancelled.
type Server struct {
	log             logrus.FieldLogger
	listenAddress   string
	shutdownTimeout time.Duration
	server          *http.Server
}

// NewRouter returns a router with every dashboard route and request logging installed.
func NewRouter(log logrus.FieldLogger, handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	handler.RegisterRoutes(r)
	return r
}

// NewServer creates a server for handler listening on listenAddress.
func NewServer(log logrus.FieldLogger, listenAddress string, shutdownTimeout time.Duration, handler http.Handler) (*Server, error) {
	if listenAddress == "" {
		return nil, errors.New("listenAddress can not be empty")
	}

	if shutdownTimeout == 0 {
		return nil, errors.New("shutdownTimeout can not be zero")
	}

	return &Server{
		log:             log,
		listenAddress:   listenAddress,
		shutdownTimeout: shutdownTimeout,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start begins serving in the background. Shutdown starts when ctx is done; wg is
// released once the server has stopped.
func (s *Server) Start(ctx context.Context, wg *sync.WaitGroup) error {
	l, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		s.log.Infof("Listening on %s ...", s.listenAddress)
		err := s.server.Serve(l)
		if !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("Error in HTTP server: %s", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()

		s.log.Debug("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Errorf("Error shutting down server: %s", err)
		}
	}()

	return nil
}
