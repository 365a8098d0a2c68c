package request

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// Sandbox sizes.
const (
	SandboxSizeSmall  = "Small"
	SandboxSizeMedium = "Medium"
	SandboxSizeLarge  = "Large"
	SandboxSizeFull   = "Full"
)

var sandboxSizes = []any{SandboxSizeSmall, SandboxSizeMedium, SandboxSizeLarge, SandboxSizeFull}

// SandboxRequest covers sandbox vaults and their snapshots
type SandboxRequest struct {
	vaultRequest

	domain             string
	source             string
	sourceSnapshot     string
	release            string
	addRequester       *bool
	description        string
	includeData        *bool
	temporaryAllowance int
}

// NewSandboxRequest creates a sandbox builder
func NewSandboxRequest(c *client.Client) *SandboxRequest {
	return &SandboxRequest{vaultRequest: newVaultRequest(c)}
}

// SetDomain sets the domain of a new sandbox
func (r *SandboxRequest) SetDomain(domain string) *SandboxRequest {
	r.domain = domain
	return r
}

// SetSource sets the source of a new sandbox, vault or snapshot
func (r *SandboxRequest) SetSource(source string) *SandboxRequest {
	r.source = source
	return r
}

// SetSourceSnapshot sets the snapshot API name used as source
func (r *SandboxRequest) SetSourceSnapshot(apiName string) *SandboxRequest {
	r.sourceSnapshot = apiName
	return r
}

// SetRelease selects general, limited or prerelease
func (r *SandboxRequest) SetRelease(release string) *SandboxRequest {
	r.release = release
	return r
}

// SetAddRequester adds the current user to the new sandbox
func (r *SandboxRequest) SetAddRequester(add bool) *SandboxRequest {
	r.addRequester = boolPtr(add)
	return r
}

// SetDescription sets the description of a snapshot
func (r *SandboxRequest) SetDescription(description string) *SandboxRequest {
	r.description = description
	return r
}

// SetIncludeData copies data records into a snapshot
func (r *SandboxRequest) SetIncludeData(include bool) *SandboxRequest {
	r.includeData = boolPtr(include)
	return r
}

// SetTemporaryAllowance sets the temporary allowance of an entitlement
func (r *SandboxRequest) SetTemporaryAllowance(allowance int) *SandboxRequest {
	r.temporaryAllowance = allowance
	return r
}

func validateSize(size string) error {
	return validation.Errors{
		"size": validation.Validate(size, validation.Required, validation.In(sandboxSizes...)),
	}.Filter()
}

// RetrieveSandboxes lists sandboxes and entitlements of the vault
func (r *SandboxRequest) RetrieveSandboxes(ctx context.Context) (*models.SandboxResponse, error) {
	resp := &models.SandboxResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/objects/sandbox"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveSandboxDetailsByID reads a sandbox by vault ID
func (r *SandboxRequest) RetrieveSandboxDetailsByID(ctx context.Context, vaultID int) (*models.SandboxDetailsResponse, error) {
	if err := validateID("vault_id", vaultID); err != nil {
		return nil, err
	}

	resp := &models.SandboxDetailsResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/objects/sandbox/"+strconv.Itoa(vaultID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecheckSandboxUsageLimit recalculates usage against the sandbox limits
func (r *SandboxRequest) RecheckSandboxUsageLimit(ctx context.Context) (*models.VaultResponse, error) {
	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodPost, "/objects/sandbox/actions/recheckusage"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ChangeSandboxSize changes the size of a sandbox
func (r *SandboxRequest) ChangeSandboxSize(ctx context.Context, name, size string) (*models.SandboxEntitlementResponse, error) {
	if err := validateRequired(map[string]string{"name": name}); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox/batch/changesize")
	call.JSON = []map[string]string{{"name": name, "size": size}}

	resp := &models.SandboxEntitlementResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetSandboxEntitlements grants or removes sandbox allowances of another vault
func (r *SandboxRequest) SetSandboxEntitlements(ctx context.Context, name, size string, allowance int, grant bool) (*models.SandboxEntitlementResponse, error) {
	if err := validateRequired(map[string]string{"name": name}); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}
	if allowance < 0 {
		return nil, fmt.Errorf("allowance must not be negative")
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox/entitlements/set")
	call.Form.Set("name", name)
	call.Form.Set("size", size)
	call.Form.Set("allowance", strconv.Itoa(allowance))
	call.Form.Set("grant", strconv.FormatBool(grant))
	setInt(call.Form, "temporary_allowance", r.temporaryAllowance)

	resp := &models.SandboxEntitlementResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateOrRefreshSandbox creates a sandbox, or refreshes it when name exists
func (r *SandboxRequest) CreateOrRefreshSandbox(ctx context.Context, size, name string) (*models.JobCreateResponse, error) {
	if err := validateRequired(map[string]string{"name": name}); err != nil {
		return nil, err
	}
	if err := validateSize(size); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox")
	call.Form.Set("size", size)
	call.Form.Set("name", name)
	call.SetForm("domain", r.domain)
	call.SetForm("source", r.source)
	call.SetForm("source_snapshot", r.sourceSnapshot)
	call.SetForm("release", r.release)
	setBool(call.Form, "add_requester", r.addRequester)

	resp := &models.JobCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RefreshSandboxFromSnapshot refreshes a sandbox from one of its snapshots
func (r *SandboxRequest) RefreshSandboxFromSnapshot(ctx context.Context, vaultID int, snapshotAPIName string) (*models.JobCreateResponse, error) {
	if err := validateID("vault_id", vaultID); err != nil {
		return nil, err
	}
	if err := validateRequired(map[string]string{"source_snapshot": snapshotAPIName}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox/"+strconv.Itoa(vaultID)+"/actions/refresh")
	call.Form.Set("source_snapshot", snapshotAPIName)

	resp := &models.JobCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteSandbox deletes a sandbox by name
func (r *SandboxRequest) DeleteSandbox(ctx context.Context, name string) (*models.VaultResponse, error) {
	if err := validateRequired(map[string]string{"name": name}); err != nil {
		return nil, err
	}

	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, "/objects/sandbox/"+url.PathEscape(name)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateSandboxSnapshot snapshots a sandbox
func (r *SandboxRequest) CreateSandboxSnapshot(ctx context.Context, sourceSandbox, name string) (*models.JobCreateResponse, error) {
	if err := validateRequired(map[string]string{"source_sandbox": sourceSandbox, "name": name}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox/snapshot")
	call.Form.Set("source_sandbox", sourceSandbox)
	call.Form.Set("name", name)
	call.SetForm("description", r.description)
	setBool(call.Form, "include_data", r.includeData)

	resp := &models.JobCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveSandboxSnapshots lists snapshots
func (r *SandboxRequest) RetrieveSandboxSnapshots(ctx context.Context) (*models.SandboxSnapshotResponse, error) {
	resp := &models.SandboxSnapshotResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/objects/sandbox/snapshot"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteSandboxSnapshot deletes a snapshot by API name
func (r *SandboxRequest) DeleteSandboxSnapshot(ctx context.Context, apiName string) (*models.VaultResponse, error) {
	if err := validateRequired(map[string]string{"api_name": apiName}); err != nil {
		return nil, err
	}

	resp := &models.VaultResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, "/objects/sandbox/snapshot/"+url.PathEscape(apiName)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateSandboxSnapshot recreates a snapshot from its current sandbox
func (r *SandboxRequest) UpdateSandboxSnapshot(ctx context.Context, apiName string) (*models.JobCreateResponse, error) {
	if err := validateRequired(map[string]string{"api_name": apiName}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/sandbox/snapshot/"+url.PathEscape(apiName)+"/actions/update")

	resp := &models.JobCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
