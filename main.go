package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"linear-mcp-server/internal/application"
	"linear-mcp-server/internal/domain"
	"linear-mcp-server/internal/infrastructure"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand creates the linear-mcp-server command. Running it with no
// subcommand serves MCP until SIGINT or SIGTERM.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "linear-mcp-server",
		Short: "MCP server exposing Linear issue operations",
		Long: `linear-mcp-server exposes Linear issue operations (create, batch create,
bulk update, search, get, edit and delete) as MCP tools over stdio or HTTP+SSE.`,
		Version: application.Version,
		// SilenceUsage prevents usage from being printed on runtime errors
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), application.Version)
		},
	})
	root.AddCommand(newAuthCommand())

	return root
}

// newAuthCommand manages Linear tokens kept in the OS keychain. A config
// file refers to them with linear.auth.keyring_account.
func newAuthCommand() *cobra.Command {
	var account string

	auth := &cobra.Command{
		Use:   "auth",
		Short: "Manage Linear tokens stored in the OS keychain",
	}
	auth.PersistentFlags().StringVarP(&account, "account", "a", "default", "Keychain account name")

	auth.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Store a Linear API key or OAuth token read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "Paste the Linear token and press Enter:")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			token := strings.TrimSpace(line)
			if token == "" {
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
				return fmt.Errorf("token must not be empty")
			}
			if err := domain.StoreKeyringToken(account, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token stored for account %s\n", account)
			return nil
		},
	})

	auth.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := domain.DeleteKeyringToken(account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token removed for account %s\n", account)
			return nil
		},
	})

	return auth
}

// serve loads configuration, builds the server and runs it until ctx is
// cancelled or the transport stops.
func serve(ctx context.Context, configPath string) error {
	config, err := domain.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := domain.NewStructuredLoggerWithWriter(os.Stderr, config.Log.Level)
	logger.LogInfo("configuration loaded", map[string]interface{}{
		"path":      configPath,
		"transport": config.Transport.Type,
		"endpoint":  config.Linear.Endpoint,
	})

	server, err := buildServer(config, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.LogInfo("initiating graceful shutdown", nil)

	if err := server.Close(); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	logger.LogInfo("server shutdown complete", nil)
	return nil
}

// buildServer wires the Linear client, the issue handler and the transport
// described by config.
func buildServer(config *domain.Config, logger *domain.StructuredLogger) (*application.Server, error) {
	authManager := domain.NewAuthenticationManagerFromConfig(config)
	mapper := domain.NewResponseMapper()

	// Leave the interface nil, not a typed nil pointer, when there are
	// no default credentials.
	var client domain.IssueClient
	if authManager.HasDefaultCredentials() {
		httpClient, err := authManager.GetAuthenticatedClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %w", err)
		}
		client = infrastructure.NewLinearClient(config.Linear.Endpoint, httpClient)
	} else {
		logger.LogWarn("no default Linear credentials configured; every call must provide auth", nil)
	}

	handler := application.NewIssueHandler(client, mapper, authManager, config.Linear.Endpoint).WithLogger(logger)
	router := application.NewRequestRouter(handler)

	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		transport = domain.NewStdioTransport(logger)
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port, logger)
	default:
		return nil, fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	return application.NewServer(transport, router, config).WithLogger(logger), nil
}
