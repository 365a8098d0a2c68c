package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ylchen07/go-vapil/internal/azure"
	"github.com/ylchen07/go-vapil/internal/config"
	"github.com/ylchen07/go-vapil/internal/hashicorp"
	"github.com/ylchen07/go-vapil/internal/output"
	"github.com/ylchen07/go-vapil/internal/provider"
	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// defaultClientID identifies the CLI when a vault sets no client_id
const defaultClientID = "go-vapil-cli"

func init() {
	// Register credential providers
	provider.Register(config.ProviderEnv, provider.NewEnvProvider)
	provider.Register(config.ProviderAzure, azure.NewProvider)
	provider.Register(config.ProviderHashicorp, hashicorp.NewProvider)
}

// app holds global flags and state shared by all commands
type app struct {
	configPath string
	vaultName  string
	format     string
	logLevel   string

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger hclog.Logger
}

func main() {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "vapil",
		Short:         "A command line client for the Veeva Vault REST API",
		Long:          `vapil authenticates against Veeva Vault and runs common REST API calls: VQL queries, document and file staging downloads, jobs, sandboxes and API usage logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file path (optional)")
	flags.StringVarP(&a.vaultName, "vault", "v", "", "Vault instance name (uses default if not specified)")
	flags.StringVarP(&a.format, "output", "o", "", "Output format (plain, json, yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		a.listProvidersCmd(),
		a.listVaultsCmd(),
		a.loginCmd(),
		a.versionsCmd(),
		a.queryCmd(),
		a.documentCmd(),
		a.jobCmd(),
		a.sandboxCmd(),
		a.stagingCmd(),
		a.userCmd(),
		a.logsCmd(),
	)
	return rootCmd
}

// setup loads the config and builds the logger. Flags override config values.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.format == "" {
		a.format = a.cfg.Defaults.Output
	}
	if a.logLevel == "" {
		a.logLevel = a.cfg.Defaults.LogLevel
	}

	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "vapil",
		Level:  hclog.LevelFromString(a.logLevel),
		Output: a.errOut,
	})
	a.logger.Debug("config loaded", "command", cmd.Name(), "vaults", len(a.cfg.Vaults))
	return nil
}

func (a *app) formatter() (output.Formatter, error) {
	return output.GetFormatter(output.Format(a.format))
}

// vault returns the instance selected by --vault or the default one
func (a *app) vault() (*config.VaultInstance, error) {
	if a.vaultName != "" {
		return a.cfg.GetVault(a.vaultName)
	}
	return a.cfg.GetDefaultVault()
}

// providerConfig builds the settings of a credential provider from the config
func (a *app) providerConfig(name string) *provider.Config {
	cfg := &provider.Config{
		Name:     name,
		Settings: make(map[string]interface{}),
	}

	switch name {
	case config.ProviderEnv:
		if env := a.cfg.Providers.Env; env != nil {
			cfg.Settings["prefix"] = env.Prefix
		}
	case config.ProviderAzure:
		if az := a.cfg.Providers.Azure; az != nil {
			cfg.Settings["vault_url"] = az.VaultURL
		}
	case config.ProviderHashicorp:
		if hc := a.cfg.Providers.Hashicorp; hc != nil {
			cfg.Settings["address"] = hc.Address
			cfg.Settings["token"] = hc.Token
			cfg.Settings["namespace"] = hc.Namespace
			cfg.Settings["mount"] = hc.Mount
		}
	}

	return cfg
}

// credentials resolves the secrets of a vault instance. Values from the
// credential provider win over inline values.
func (a *app) credentials(ctx context.Context, inst *config.VaultInstance) (*provider.Credentials, error) {
	inline := &provider.Credentials{
		Username:  inst.Username,
		Password:  inst.Password,
		SessionID: inst.SessionID,
	}
	if inst.OIDC != nil {
		inline.ClientSecret = inst.OIDC.ClientSecret
	}
	if inst.Credentials == "" {
		return inline, nil
	}

	p, err := provider.GetProvider(inst.Credentials, a.providerConfig(inst.Credentials))
	if err != nil {
		return nil, err
	}
	creds, err := p.Credentials(ctx, inst.SecretRef)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials for vault '%s' from %s: %w", inst.Name, p.Name(), err)
	}
	a.logger.Debug("credentials resolved", "vault", inst.Name, "provider", p.Name())

	creds.Merge(inline)
	return creds, nil
}

// settings translates a vault instance into client settings
func (a *app) settings(ctx context.Context, inst *config.VaultInstance) (client.Settings, error) {
	creds, err := a.credentials(ctx, inst)
	if err != nil {
		return client.Settings{}, err
	}

	s := client.Settings{
		VaultDNS:                       inst.DNS,
		APIVersion:                     inst.APIVersion,
		ClientID:                       inst.ClientID,
		AuthType:                       client.AuthType(inst.AuthType),
		Username:                       creds.Username,
		Password:                       creds.Password,
		SessionID:                      creds.SessionID,
		OAuthProfileID:                 inst.OAuthProfileID,
		LoginURL:                       inst.LoginURL,
		BaseURL:                        inst.BaseURL,
		ValidateSession:                a.cfg.Client.ValidateSession,
		ReauthenticateOnInvalidSession: a.cfg.Client.Reauthenticate,
		GenerateReferenceID:            a.cfg.Client.GenerateReferenceID,
		Timeout:                        a.cfg.Client.Timeout,
		Retry:                          connector.RetryPolicy{MaxRetries: a.cfg.Client.MaxRetries},
	}
	if s.ClientID == "" {
		s.ClientID = defaultClientID
	}
	if s.AuthType == "" && creds.Password == "" && creds.SessionID != "" {
		s.AuthType = client.AuthTypeSessionID
	}

	if inst.OIDC != nil {
		ts, err := client.OIDCTokenSource(ctx, client.OIDCConfig{
			IssuerURL:    inst.OIDC.IssuerURL,
			ClientID:     inst.OIDC.ClientID,
			ClientSecret: creds.ClientSecret,
			Scopes:       inst.OIDC.Scopes,
		})
		if err != nil {
			return client.Settings{}, err
		}
		s.TokenSource = ts
	}

	return s, nil
}

// connect builds a client for the selected vault and authenticates it
func (a *app) connect(ctx context.Context) (*client.Client, *models.AuthenticationResponse, error) {
	inst, err := a.vault()
	if err != nil {
		return nil, nil, err
	}

	settings, err := a.settings(ctx, inst)
	if err != nil {
		return nil, nil, err
	}

	c, err := client.New(settings, client.WithLogger(a.logger.Named("client")))
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.Authenticate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to authenticate to vault '%s': %w", inst.Name, err)
	}
	if !c.IsAuthenticated() {
		return nil, resp, fmt.Errorf("authentication to vault '%s' failed: %w", inst.Name, resp.Err())
	}

	return c, resp, nil
}

// render prints a response. Plain output uses the rows when given; failed
// responses are printed and returned as an error.
func (a *app) render(resp models.Response, columns []string, rows []map[string]any) error {
	f, err := a.formatter()
	if err != nil {
		return err
	}

	base := resp.Base()
	var result string
	if a.format == string(output.FormatPlain) && rows != nil && base.IsSuccessful() {
		result, err = f.FormatRows(columns, rows)
	} else {
		result, err = f.FormatResponse(resp)
	}
	if err != nil {
		return err
	}

	if result != "" {
		fmt.Fprintln(a.out, result)
	}
	return base.Err()
}

// toRows converts typed values into rows keyed by their JSON field names
func toRows(v any) ([]map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if data[0] == '{' {
		var row map[string]any
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, err
		}
		return []map[string]any{row}, nil
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}
