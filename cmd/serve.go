package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gopresence/config"
	"gopresence/storage"
	"gopresence/web"
)

var (
	servePort    int
	serveSource  string
	serveView    string
	serveArea    string
	serveDBPath  string
	serveOrigins []string
	serveNoOpen  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the monthly matrix as JSON and as a read-only HTML page",
	Long: `Start an HTTP server exposing the reconciled matrix.

Endpoints:
- GET /healthz                          snapshot row counts
- GET /api/matrix/{YYYY-MM}             calendar view of every employee
- GET /api/matrix/{YYYY-MM}/{employee}  one employee by name or numeric id
- GET /month/{YYYY-MM}                  HTML table with cell codes

Every request builds the matrix from the selected source, so the local
snapshot can be refreshed with "import" while the server runs.`,
	Example: `
  # Serve the local snapshot on the default port
  gopresence serve

  # Serve upstream data for a calendar UI on another origin
  gopresence serve --source upstream --port 9090 --allow-origin http://localhost:5173 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		client, closeClient, err := openCollaborator(cfg, serveSource, serveDBPath)
		if err != nil {
			return err
		}
		defer closeClient()

		builder, err := newMatrixBuilder(cfg, client, serveView, serveArea, logger)
		if err != nil {
			return err
		}

		opts := web.Options{AllowedOrigins: serveOrigins, Logger: logger}
		if store, ok := client.(*storage.SQLiteStore); ok {
			opts.Stats = store
		}

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", servePort),
			Handler:           web.NewServer(builder, opts),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", servePort)
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s (source: %s)\n", listenURL, strings.ToLower(serveSource))
		logger.Info("server started", zap.String("addr", server.Addr), zap.String("source", serveSource))
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the web server")
	serveCmd.Flags().StringVar(&serveSource, "source", sourceLocal, "Source backend: local|upstream")
	serveCmd.Flags().StringVar(&serveView, "view", "", "Configured view selecting the sources (default: all sources)")
	serveCmd.Flags().StringVar(&serveArea, "area", "", "Only include employees of this area")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
	serveCmd.Flags().StringArrayVar(&serveOrigins, "allow-origin", nil, "Allowed CORS origin (repeatable, default: any)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
