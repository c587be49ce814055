package server

import (
	"context"
	"docflow/internal/config"
	"docflow/internal/http/handlers/assignments"
	"docflow/internal/http/handlers/docs"
	"docflow/internal/http/handlers/export"
	"docflow/internal/http/handlers/fields"
	"docflow/internal/http/handlers/session"
	"docflow/internal/http/handlers/user"
	"docflow/internal/http/middleware"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func StartServer(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	authService AuthService,
	userService UserService,
	documentService DocumentService,
	assignmentService AssignmentService,
	exportService ExportService,
	sessionStorer SessionStorer,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, authService, userService, documentService, assignmentService, exportService, sessionStorer)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		Handler:      c.Handler(r),
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	auth AuthService,
	us UserService,
	doc DocumentService,
	as AssignmentService,
	es ExportService,
	sessionStorer SessionStorer,
) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		token := vars["token"]
		session.Delete(ctx, log, w, r, token, auth)
	}).Methods(http.MethodDelete)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, sessionStorer))

	// GET current user
	protected.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		session.Me(log, w, r)
	}).Methods(http.MethodGet)

	// GET own assignments
	protected.HandleFunc("/api/assignments", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		assignments.Get(ctx, log, w, r, as)
	}).Methods(http.MethodGet)

	// POST assignment values
	protected.HandleFunc("/api/assignments/{id}/values", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		assignmentID := vars["id"]
		assignments.Submit(ctx, log, w, r, assignmentID, as)
	}).Methods(http.MethodPost)

	// POST assignment completion
	protected.HandleFunc("/api/assignments/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		assignmentID := vars["id"]
		assignments.Complete(ctx, log, w, r, assignmentID, as)
	}).Methods(http.MethodPost)

	// GET assignment artifact
	protected.HandleFunc("/api/assignments/{id}/download", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		assignmentID := vars["id"]
		export.Download(ctx, log, w, r, assignmentID, es)
	}).Methods(http.MethodGet)

	admin := protected.NewRoute().Subrouter()

	admin.Use(middleware.RequireAdmin(log))

	// GET users
	admin.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user.Get(ctx, log, w, r, us)
	}).Methods(http.MethodGet)

	// POST user role
	admin.HandleFunc("/api/users/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		userID := vars["id"]
		user.SetRole(ctx, log, w, r, userID, us)
	}).Methods(http.MethodPost)

	// POST doc
	admin.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Upload(ctx, log, w, r, doc)
	}).Methods(http.MethodPost)

	// GET docs
	admin.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Get(ctx, log, w, r, doc)
	}).Methods(http.MethodGet)

	// GET doc by id
	admin.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.GetByID(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodGet)

	// DELETE doc by id
	admin.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Delete(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodDelete)

	// POST doc reprocessing
	admin.HandleFunc("/api/docs/{id}/reprocess", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Reprocess(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodPost)

	// POST field
	admin.HandleFunc("/api/docs/{id}/fields", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		fields.Create(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodPost)

	// DELETE field by id
	admin.HandleFunc("/api/fields/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		fieldID := vars["id"]
		fields.Delete(ctx, log, w, r, fieldID, doc)
	}).Methods(http.MethodDelete)

	// POST assignments for doc
	admin.HandleFunc("/api/docs/{id}/assign", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		assignments.Assign(ctx, log, w, r, docID, as)
	}).Methods(http.MethodPost)

	// GET completed assignments
	admin.HandleFunc("/api/assignments/completed", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		assignments.GetCompleted(ctx, log, w, r, as)
	}).Methods(http.MethodGet)

	// GET completed archive
	admin.HandleFunc("/api/assignments/completed/archive", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		export.DownloadBundle(ctx, log, w, r, es)
	}).Methods(http.MethodGet)

	// DELETE assignment by id
	admin.HandleFunc("/api/assignments/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		assignmentID := vars["id"]
		assignments.Delete(ctx, log, w, r, assignmentID, as)
	}).Methods(http.MethodDelete)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
