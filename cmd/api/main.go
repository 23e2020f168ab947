package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cistcor/cistbot/backend/internal/config"
	"github.com/cistcor/cistbot/backend/internal/handler"
	faqmodel "github.com/cistcor/cistbot/backend/internal/model/faq"
	"github.com/cistcor/cistbot/backend/internal/service/ai"
	"github.com/cistcor/cistbot/backend/internal/service/chat"
	"github.com/cistcor/cistbot/backend/internal/service/faq"
	"github.com/cistcor/cistbot/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	matcher := faq.NewMatcher(loadFAQEntries(cfg.Chat.FAQFile))

	store := session.NewStore(cfg.Chat.SessionTTL)
	go store.RunSweeper(ctx)

	gateway := ai.NewGateway(ai.NewClient(cfg.AI), cfg.AI)
	prompts := ai.NewPromptBuilder(ai.Persona, loadCompanyProfile(cfg.Chat.CompanyProfileFile))

	chatSvc := chat.NewService(store, matcher, prompts, gateway, chat.Options{
		FAQThreshold:     cfg.Chat.FAQThreshold,
		HistoryWindow:    cfg.Chat.HistoryWindow,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
	})

	router := handler.NewRouter(chatSvc, handler.RouterConfig{
		AllowedOrigin: cfg.Server.AllowedOrigin,
		RateLimit:     cfg.Server.RateLimit,
	})

	startServer(ctx, cfg.Server, router)
}

// loadFAQEntries prefers the configured file and falls back to the
// built-in production set.
func loadFAQEntries(path string) []faqmodel.Entry {
	if path == "" {
		return faqmodel.Seed()
	}

	entries, err := faqmodel.LoadFile(path)
	if err != nil {
		log.Printf("warning: %v, using built-in FAQ set", err)
		return faqmodel.Seed()
	}
	log.Printf("loaded %d FAQ entries from %s", len(entries), path)
	return entries
}

// loadCompanyProfile reads the optional external profile; an empty return
// makes the prompt builder use its built-in default.
func loadCompanyProfile(path string) string {
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("warning: failed to read company profile %s: %v, using built-in default", path, err)
		return ""
	}
	return string(data)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CistBot backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
