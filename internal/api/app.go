package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/sse"
	"github.com/timada-org/todo/internal/todo"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Addr  string
	Store *todo.Store
	Bus   *core.EventBus
	// Auth is optional; without it every route is open.
	Auth *Auth
}

type App struct {
	addr   string
	store  *todo.Store
	server *sse.Server
	auth   *Auth
	router *httprouter.Router
}

func New(options Options) *App {
	app := &App{
		addr:   options.Addr,
		store:  options.Store,
		server: sse.New(options.Bus),
		auth:   options.Auth,
	}

	router := httprouter.New()
	router.GET("/todos", app.authenticated(app.list()))
	router.POST("/todos", app.authenticated(app.create()))
	router.GET("/todos/:id", app.authenticated(app.read()))
	router.PUT("/todos/:id/status", app.authenticated(app.updateStatus()))
	router.PUT("/todos/:id/description", app.authenticated(app.updateDescription()))
	router.DELETE("/todos/:id", app.authenticated(app.delete()))
	router.GET("/events", app.authenticated(app.server.HandleFunc()))

	app.server.NewSessionHandler = func(id string, session *sse.Session) {
		log.WithFields(log.Fields{"session": id, "filter": session.Filter().String()}).Debug("sse session opened")
	}
	app.server.CloseSessionHandler = func(id string, session *sse.Session) {
		log.WithField("session", id).Debug("sse session closed")
	}

	app.router = router

	return app
}

func (app *App) Handler() http.Handler {
	return app.router
}

// Listen binds the configured address and serves until ctx is done.
func (app *App) Listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.addr)
	if err != nil {
		return err
	}

	return app.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts the server
// down gracefully. Request contexts derive from ctx so streaming sessions end
// as soon as shutdown starts.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler: app.router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)
	go func() {
		log.WithField("addr", ln.Addr().String()).Info("listening")
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) Close() {
	if app.auth != nil {
		app.auth.Close()
	}
}

func (app *App) authenticated(next httprouter.Handle) httprouter.Handle {
	if app.auth == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		userID, err := app.auth.UserID(r)
		if err != nil {
			log.WithError(err).WithField("path", r.URL.Path).Debug("rejected request")
			http.Error(w, "Unauthorized.", http.StatusUnauthorized)
			return
		}

		log.WithFields(log.Fields{"user": userID, "method": r.Method, "path": r.URL.Path}).Debug("request")

		next(w, r, p)
	}
}
