package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mangaparsers/internal/auth"
	"mangaparsers/internal/browse"
	"mangaparsers/internal/manga"
	"mangaparsers/internal/notify"
	"mangaparsers/internal/scraper"
	"mangaparsers/internal/sources"
	synchub "mangaparsers/internal/sync"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()
	registry := sources.NewRegistry(sources.LoadConfig())

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(srvCfg.SyncAddr, hub)
	udpSrv := notify.NewServer(srvCfg.NotifyAddr, notify.NewRegistry(), nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"sources":     registry.Names(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Stored catalog (public)
	mangaRepo := manga.NewRepo(db)
	manga.NewHandler(mangaRepo).RegisterRoutes(router.Group("/manga"))

	// Live source browsing (public)
	browse.NewHandler(registry).RegisterRoutes(router.Group("/sources"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.NewTokenService(authCfg)
	auth.NewHandler(tokenSvc, authCfg.AdminPasswordHash).RegisterRoutes(router.Group("/auth"))

	// Admin (protected)
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc, auth.RoleAdmin))
	crawlCtx, stopCrawls := context.WithCancel(context.Background())
	defer stopCrawls()
	crawls := scraper.NewHandler(crawlCtx, registry, db, scraper.Notifiers{hub, udpSrv})
	crawls.RegisterRoutes(admin)

	httpSrv := &http.Server{
		Addr:    srvCfg.APIAddr,
		Handler: router,
	}

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := udpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.APIAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	// crawls still publish to the feeds, so they stop first
	stopCrawls()
	log.Println("waiting for running crawls")
	if err := crawls.Wait(shutdownCtx); err != nil {
		log.Printf("crawls did not stop: %v", err)
	}

	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}
	if err := udpSrv.Close(); err != nil {
		log.Printf("udp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
