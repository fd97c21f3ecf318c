package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"dayplan-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the agenda over HTTP (JSON API + minimal HTML)",
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
dayplan web --addr 127.0.0.1:3339
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			srv := web.NewServer(web.ServerConfig{Dir: dir, Workspace: app.Workspace})

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s/\n", ln.Addr().String())

			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return httpSrv.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3339", "Listen address")
	return cmd
}
