package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	api "github.com/testgen-lite/testgen/internal/api/http"
	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/auth"
	"github.com/testgen-lite/testgen/internal/bank"
	"github.com/testgen-lite/testgen/internal/config"
	"github.com/testgen-lite/testgen/internal/db"
	"github.com/testgen-lite/testgen/internal/rbac"
	"github.com/testgen-lite/testgen/internal/session"
	"github.com/testgen-lite/testgen/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- Question bank (read-only after load) ---
	defs, err := bank.LoadFile(cfg.BankPath)
	if err != nil {
		// A broken bank degrades to an empty one; the server still runs.
		log.Printf("bank: %v (starting with an empty bank)", err)
	}
	bankStore := bank.NewStore(defs)
	log.Printf("bank: %d questions loaded from %s", bankStore.Len(), cfg.BankPath)

	// --- Session store ---
	var sessions session.Store
	if cfg.DBDriver == "memory" {
		sessions = session.NewInMemoryStore()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		sessions = session.NewSQLStore(dbh)
	}

	// --- Export archive ---
	blobs, err := storage.NewFSStore(cfg.ArtifactBasePath)
	if err != nil {
		log.Fatalf("artifact store: %v", err)
	}

	// --- Randomness (seedable for reproducible runs) ---
	src := assemble.NewSource(cfg.RNGSeed)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	users := []auth.User{{Name: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"}}
	users = append(users, parseUsers(cfg.ExtraUsers)...)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, users))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("bank:view")).
			Get("/questions", api.ListQuestionsHandler(bankStore))
		pr.With(rbac.Require("bank:view")).
			Get("/questions/{questionID}", api.GetQuestionHandler(bankStore))
		pr.With(rbac.Require("bank:view")).
			Get("/questions/{questionID}/preview", api.PreviewQuestionHandler(bankStore, src))

		pr.With(rbac.Require("test:edit")).
			Post("/sessions", api.CreateSessionHandler(bankStore, sessions))
		// Reading a session needs either the edit or the export permission.
		pr.With(rbac.RequireAny("test:edit", "test:export")).
			Get("/sessions", api.ListSessionsHandler(bankStore, sessions))
		pr.With(rbac.RequireAny("test:edit", "test:export")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(bankStore, sessions))
		pr.With(rbac.Require("test:edit")).
			Post("/sessions/{sessionID}/questions", api.AppendQuestionsHandler(bankStore, sessions, src))
		pr.With(rbac.Require("test:edit")).
			Post("/sessions/{sessionID}/questions/{index}/move", api.MoveInstanceHandler(bankStore, sessions))
		pr.With(rbac.Require("test:edit")).
			Post("/sessions/{sessionID}/questions/{index}/regenerate", api.RegenerateInstanceHandler(bankStore, sessions, src))
		pr.With(rbac.Require("test:edit")).
			Delete("/sessions/{sessionID}/questions/{index}", api.RemoveInstanceHandler(bankStore, sessions))
		pr.With(rbac.Require("test:edit")).
			Post("/sessions/{sessionID}/reset", api.ResetSessionHandler(bankStore, sessions))
		pr.With(rbac.Require("test:edit")).
			Delete("/sessions/{sessionID}", api.DeleteSessionHandler(sessions))

		pr.With(rbac.Require("test:export")).
			Get("/sessions/{sessionID}/export/test", api.ExportTestHandler(bankStore, sessions, blobs))
		pr.With(rbac.Require("test:export")).
			Get("/sessions/{sessionID}/export/key", api.ExportKeyHandler(bankStore, sessions, blobs))
		pr.With(rbac.Require("test:export")).
			Get("/sessions/{sessionID}/export/{doc}/archived", api.ArchivedExportHandler(sessions, blobs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// parseUsers decodes "name:bcrypt-hash:role" entries, comma separated.
// Malformed entries are logged and dropped.
func parseUsers(raw string) []auth.User {
	var out []auth.User
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			log.Printf("users: skipping malformed entry %q", entry)
			continue
		}
		out = append(out, auth.User{Name: parts[0], PassHash: parts[1], Role: parts[2]})
	}
	return out
}
