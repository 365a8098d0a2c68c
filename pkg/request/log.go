package request

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Formats of the daily API usage log.
const (
	LogFormatCSV     = "csv"
	LogFormatLogfile = "logfile"
)

// LogRequest covers audit metadata and API usage logs
type LogRequest struct {
	vaultRequest
	logFormat string
}

// NewLogRequest creates a log builder
func NewLogRequest(c *client.Client) *LogRequest {
	return &LogRequest{vaultRequest: newVaultRequest(c)}
}

// SetLogFormat selects csv or logfile. Vault returns a zip either way.
func (r *LogRequest) SetLogFormat(format string) *LogRequest {
	r.logFormat = format
	return r
}

// SetOutputPath streams the log to path instead of memory
func (r *LogRequest) SetOutputPath(path string) *LogRequest {
	r.outputPath = path
	return r
}

// SetFs sets the filesystem for the output path
func (r *LogRequest) SetFs(fs afero.Fs) *LogRequest {
	r.fs = fs
	return r
}

// RetrieveAuditTypes lists the audit trail types
func (r *LogRequest) RetrieveAuditTypes(ctx context.Context) (*models.AuditTypesResponse, error) {
	resp := &models.AuditTypesResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/metadata/audittrail"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DownloadDailyAPIUsage downloads the API usage log of one day, to the output
// path when set.
func (r *LogRequest) DownloadDailyAPIUsage(ctx context.Context, date time.Time) (*models.VaultResponse, error) {
	if date.IsZero() {
		date = time.Now().UTC().AddDate(0, 0, -1)
	}

	call := client.NewCall(http.MethodGet, "/logs/api_usage")
	call.Query.Set("date", date.Format("2006-01-02"))
	call.SetQuery("log_format", r.logFormat)

	resp := &models.VaultResponse{}
	if err := r.sendBinary(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
