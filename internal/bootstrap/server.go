package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aircompany/bookingflow/api"
	"github.com/aircompany/bookingflow/config"
	"github.com/aircompany/bookingflow/internal/service/search"
	"github.com/aircompany/bookingflow/internal/service/tickets"
	"github.com/aircompany/bookingflow/internal/service/workflow"
	"github.com/gin-gonic/gin"
)

// Run mounts every handler under /api, starts the HTTP server and blocks
// until the context is canceled or the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	searchSvc search.SearchUseCase,
	workflowSvc workflow.WorkflowUseCase,
	ticketSvc tickets.TicketUseCase,
	documents api.DocumentRenderer,
) error {
	router := gin.Default()

	group := router.Group("/api")
	api.NewSearchHandler(searchSvc).Register(group)
	api.NewSessionHandler(workflowSvc).Register(group)
	api.NewTicketHandler(ticketSvc, documents).Register(group)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
