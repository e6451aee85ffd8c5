// Package cli implements the tcmcctl command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tcmc-hq/tcmc-client/internal/app"
	"github.com/tcmc-hq/tcmc-client/internal/config"
	"github.com/tcmc-hq/tcmc-client/internal/logger"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
)

// state is shared by every command of one tree.
type state struct {
	baseURL string
	noColor bool

	cfg        *config.Config
	dispatcher *httpclient.Dispatcher
	log        logger.Logger
}

// NewRootCmd builds the tcmcctl command tree.
func NewRootCmd() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:   "tcmcctl",
		Short: "Command line client for the TCMC admin API",
		Long: `tcmcctl issues requests against the TCMC admin API: raw calls,
uploads and downloads, and the knowledge graph, session and QA-log endpoints.

Configuration comes from configs/.env and the environment (API_BASE_URL,
API_CONTENT_TYPE, API_TIMEOUT_MS, LOG_LEVEL).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&st.baseURL, "base-url", "", "Override api_base_url")
	root.PersistentFlags().BoolVar(&st.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newRequestCmd(st, "get"))
	root.AddCommand(newRequestCmd(st, "post"))
	root.AddCommand(newRequestCmd(st, "put"))
	root.AddCommand(newRequestCmd(st, "delete"))
	root.AddCommand(newDownloadCmd(st))
	root.AddCommand(newUploadCmd(st))
	root.AddCommand(newKnowledgeCmd(st))
	root.AddCommand(newSessionsCmd(st))
	root.AddCommand(newQALogCmd(st))

	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (st *state) init(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if u := strings.TrimSpace(st.baseURL); u != "" {
		cfg.APIBaseURL = u
	}
	if st.noColor {
		color.NoColor = true
	}

	st.cfg = cfg
	st.log = logger.New(stderr, cfg.LogLevel)
	st.dispatcher = app.NewDispatcher(cfg)
	st.log.DebugObj("dispatcher configured", "dispatcher", st.dispatcher.Config())
	return nil
}
