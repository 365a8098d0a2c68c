package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ylchen07/go-vapil/internal/clipboard"
	"github.com/ylchen07/go-vapil/internal/output"
	"github.com/ylchen07/go-vapil/internal/provider"
	"github.com/ylchen07/go-vapil/pkg/models"
	"github.com/ylchen07/go-vapil/pkg/request"
)

// listProvidersCmd returns the list-providers command
func (a *app) listProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-providers",
		Short: "List enabled credential providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var providers []string
			for _, name := range a.cfg.GetEnabledProviders() {
				if provider.IsRegistered(name) {
					providers = append(providers, name)
				}
			}

			f, err := a.formatter()
			if err != nil {
				return err
			}
			result, err := f.FormatProviders(providers)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, result)
			return nil
		},
	}
}

// listVaultsCmd returns the list-vaults command
func (a *app) listVaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-vaults",
		Short: "List configured vault instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]map[string]any, 0, len(a.cfg.Vaults))
			for _, v := range a.cfg.ListVaults() {
				rows = append(rows, map[string]any{
					"name":        v.Name,
					"dns":         v.DNS,
					"auth_type":   v.AuthType,
					"credentials": v.Credentials,
					"default":     v.Default,
				})
			}

			f, err := a.formatter()
			if err != nil {
				return err
			}
			result, err := f.FormatRows([]string{"name", "dns", "auth_type", "credentials", "default"}, rows)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, result)
			return nil
		},
	}
}

// loginCmd returns the login command
func (a *app) loginCmd() *cobra.Command {
	var copyToClip bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print the session ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, resp, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			if copyToClip {
				if err := clipboard.CopySecret(cmd.Context(), c.SessionID()); err != nil {
					return err
				}
				fmt.Fprintf(a.errOut, "Session ID for %s copied to clipboard!\n", c.Settings().VaultDNS)
				return nil
			}

			if a.format == string(output.FormatPlain) || resp == nil {
				fmt.Fprintln(a.out, c.SessionID())
				return nil
			}
			return a.render(resp, nil, nil)
		},
	}

	cmd.Flags().BoolVarP(&copyToClip, "copy", "c", false, "Copy the session ID to clipboard")
	return cmd
}

// versionsCmd returns the versions command
func (a *app) versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the API versions supported by the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewAuthenticationRequest(c).RetrieveAPIVersions(cmd.Context())
			if err != nil {
				return err
			}

			versions := make([]string, 0, len(resp.Values))
			for v := range resp.Values {
				versions = append(versions, v)
			}
			sort.Strings(versions)

			rows := make([]map[string]any, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, map[string]any{"version": v, "url": resp.Values[v]})
			}
			return a.render(resp, []string{"version", "url"}, rows)
		},
	}
}

// queryCmd returns the query command
func (a *app) queryCmd() *cobra.Command {
	var (
		all      bool
		describe bool
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "query <vql>",
		Short: "Run a VQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			q := request.NewQueryRequest(c).SetDescribeQuery(describe).SetMaxPages(maxPages)

			var resp *models.QueryResponse
			if all {
				resp, err = q.QueryAll(cmd.Context(), args[0])
			} else {
				resp, err = q.Query(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			var columns []string
			if resp.QueryDescribe != nil {
				for _, field := range resp.QueryDescribe.Fields {
					columns = append(columns, field.Name)
				}
			}

			rows := resp.Data
			if rows == nil {
				rows = []map[string]any{}
			}
			return a.render(resp, columns, rows)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Follow next_page links and return every row")
	cmd.Flags().BoolVar(&describe, "describe", false, "Request field metadata (orders plain output columns)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages with --all (0 for no limit)")
	return cmd
}

// documentCmd returns the document command group
func (a *app) documentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Read and download documents",
	}

	getCmd := &cobra.Command{
		Use:   "get <doc-id>",
		Short: "Retrieve the fields of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewDocumentRequest(c).RetrieveDocument(cmd.Context(), docID)
			if err != nil {
				return err
			}

			var rows []map[string]any
			if resp.Document != nil {
				rows = []map[string]any{resp.Document.Fields}
			}
			return a.render(resp, nil, rows)
		},
	}

	var (
		file string
		lock bool
	)
	downloadCmd := &cobra.Command{
		Use:   "download <doc-id>",
		Short: "Download the source file of the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewDocumentRequest(c).
				SetLockDocument(lock).
				SetOutputPath(file).
				DownloadDocumentFile(cmd.Context(), docID)
			if err != nil {
				return err
			}
			return a.renderBinary(resp, file)
		},
	}
	downloadCmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")
	downloadCmd.Flags().BoolVar(&lock, "lock", false, "Check out the document while downloading")

	cmd.AddCommand(getCmd, downloadCmd)
	return cmd
}

// jobCmd returns the job command group
func (a *app) jobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect asynchronous jobs",
	}

	statusCmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Retrieve the status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewJobRequest(c).RetrieveJobStatus(cmd.Context(), jobID)
			if err != nil {
				return err
			}

			var rows []map[string]any
			if resp.Data != nil {
				rows = []map[string]any{{
					"id":             resp.Data.ID,
					"status":         resp.Data.Status,
					"title":          resp.Data.Title,
					"run_start_date": resp.Data.RunStartDate,
					"run_end_date":   resp.Data.RunEndDate,
				}}
			}
			return a.render(resp, []string{"id", "status", "title", "run_start_date", "run_end_date"}, rows)
		},
	}

	cmd.AddCommand(statusCmd)
	return cmd
}

// sandboxCmd returns the sandbox command group
func (a *app) sandboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Inspect sandbox vaults",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List active sandboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewSandboxRequest(c).RetrieveSandboxes(cmd.Context())
			if err != nil {
				return err
			}

			var sandboxes []models.Sandbox
			if resp.Data != nil {
				sandboxes = resp.Data.Active
			}
			rows, err := toRows(sandboxes)
			if err != nil {
				return err
			}
			return a.render(resp, []string{"vault_id", "name", "size", "status", "dns"}, rows)
		},
	}

	cmd.AddCommand(listCmd)
	return cmd
}

// stagingCmd returns the staging command group
func (a *app) stagingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Browse the file staging server",
	}

	var recursive bool
	listCmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List items at a staging path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemPath := ""
			if len(args) == 1 {
				itemPath = args[0]
			}

			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewFileStagingRequest(c).
				SetRecursive(recursive).
				ListItemsAtPath(cmd.Context(), itemPath)
			if err != nil {
				return err
			}

			rows, err := toRows(resp.Data)
			if err != nil {
				return err
			}
			return a.render(resp, []string{"kind", "path", "size", "modified_date"}, rows)
		},
	}
	listCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List sub folders too")

	var file string
	downloadCmd := &cobra.Command{
		Use:   "download <path>",
		Short: "Download a staged file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewFileStagingRequest(c).
				SetOutputPath(file).
				DownloadItemContent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderBinary(resp, file)
		},
	}
	downloadCmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")

	cmd.AddCommand(listCmd, downloadCmd)
	return cmd
}

// userCmd returns the user command group
func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect users",
	}

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the user owning the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewUserRequest(c).RetrieveUserMe(cmd.Context())
			if err != nil {
				return err
			}

			var rows []map[string]any
			if user, ok := resp.User(); ok {
				if rows, err = toRows(user); err != nil {
					return err
				}
			}
			return a.render(resp, []string{"id", "user_name__v", "user_email__v"}, rows)
		},
	}

	cmd.AddCommand(meCmd)
	return cmd
}

// logsCmd returns the logs command group
func (a *app) logsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Download vault logs",
	}

	var (
		date   string
		file   string
		format string
	)
	usageCmd := &cobra.Command{
		Use:   "api-usage",
		Short: "Download the API usage log of one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				var err error
				day, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
				}
			}

			c, _, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := request.NewLogRequest(c).
				SetLogFormat(format).
				SetOutputPath(file).
				DownloadDailyAPIUsage(cmd.Context(), day)
			if err != nil {
				return err
			}
			return a.renderBinary(resp, file)
		},
	}
	usageCmd.Flags().StringVar(&date, "date", "", "Day to download, YYYY-MM-DD (defaults to yesterday)")
	usageCmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout")
	usageCmd.Flags().StringVar(&format, "log-format", request.LogFormatCSV, "Log format (csv, logfile)")

	cmd.AddCommand(usageCmd)
	return cmd
}

// renderBinary writes downloaded content to stdout, or reports the saved
// file when the download went to disk
func (a *app) renderBinary(resp *models.VaultResponse, file string) error {
	if file != "" || !resp.IsSuccessful() {
		return a.render(resp, nil, nil)
	}
	_, err := a.out.Write(resp.BinaryContent)
	return err
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
