package request

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// UserRequest covers Vault user administration
type UserRequest struct {
	vaultRequest

	vaults                 string
	excludeVaultMembership bool
	excludeAppLicensing    bool
	limit                  int
	start                  int
	sort                   string
	domain                 bool
}

// NewUserRequest creates a user builder
func NewUserRequest(c *client.Client) *UserRequest {
	return &UserRequest{vaultRequest: newVaultRequest(c)}
}

// SetVaults limits results to a comma separated list of vault IDs, "all" or "-1"
func (r *UserRequest) SetVaults(vaults string) *UserRequest {
	r.vaults = vaults
	return r
}

// SetExcludeVaultMembership omits vault membership details
func (r *UserRequest) SetExcludeVaultMembership(exclude bool) *UserRequest {
	r.excludeVaultMembership = exclude
	return r
}

// SetExcludeAppLicensing omits application licensing details
func (r *UserRequest) SetExcludeAppLicensing(exclude bool) *UserRequest {
	r.excludeAppLicensing = exclude
	return r
}

// SetDomain makes DisableUser deactivate the user in every vault of the domain
func (r *UserRequest) SetDomain(domain bool) *UserRequest {
	r.domain = domain
	return r
}

// SetLimit sets the page size
func (r *UserRequest) SetLimit(limit int) *UserRequest {
	r.limit = limit
	return r
}

// SetStart sets the offset of the first user
func (r *UserRequest) SetStart(start int) *UserRequest {
	r.start = start
	return r
}

// SetSort sets the sort field and order, e.g. "id asc"
func (r *UserRequest) SetSort(sort string) *UserRequest {
	r.sort = sort
	return r
}

func (r *UserRequest) exclusions(call *client.Call) {
	if r.excludeVaultMembership {
		call.Query.Set("exclude_vault_membership", "true")
	}
	if r.excludeAppLicensing {
		call.Query.Set("exclude_app_licensing", "true")
	}
}

func userPath(userID int) string {
	return "/objects/users/" + strconv.Itoa(userID)
}

// RetrieveAllUsers lists users
func (r *UserRequest) RetrieveAllUsers(ctx context.Context) (*models.UserRetrieveResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/users")
	call.SetQuery("vaults", r.vaults)
	r.exclusions(call)
	setInt(call.Query, "limit", r.limit)
	setInt(call.Query, "start", r.start)
	call.SetQuery("sort", r.sort)

	resp := &models.UserRetrieveResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveUser reads a single user
func (r *UserRequest) RetrieveUser(ctx context.Context, userID int) (*models.UserResponse, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, userPath(userID))
	r.exclusions(call)

	resp := &models.UserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveUserMe reads the user owning the session
func (r *UserRequest) RetrieveUserMe(ctx context.Context) (*models.UserResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/users/me")
	r.exclusions(call)

	resp := &models.UserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveUserPermissions lists object and field permissions of a user.
// permission optionally narrows the result, e.g. "object.product__v.actions".
func (r *UserRequest) RetrieveUserPermissions(ctx context.Context, userID int, permission string) (*models.UserPermissionResponse, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, userPath(userID)+"/permissions")
	if permission != "" {
		call.Query.Set("filter", "name__v::"+permission)
	}

	resp := &models.UserPermissionResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateSingleUser creates a user from field values
func (r *UserRequest) CreateSingleUser(ctx context.Context, fields map[string]string) (*models.UserResponse, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("user fields are required")
	}

	call := client.NewCall(http.MethodPost, "/objects/users")
	setFields(call, fields)

	resp := &models.UserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateSingleUser updates field values of a user
func (r *UserRequest) UpdateSingleUser(ctx context.Context, userID int, fields map[string]string) (*models.UserResponse, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("user fields are required")
	}

	call := client.NewCall(http.MethodPut, userPath(userID))
	setFields(call, fields)

	resp := &models.UserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DisableUser deactivates a user in the vault
func (r *UserRequest) DisableUser(ctx context.Context, userID int) (*models.UserResponse, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodDelete, userPath(userID))
	if r.domain {
		call.Query.Set("domain", "true")
	}

	resp := &models.UserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ChangeMyPassword changes the password of the session user
func (r *UserRequest) ChangeMyPassword(ctx context.Context, currentPassword, newPassword string) (*models.VaultResponse, error) {
	if err := validateRequired(map[string]string{"password__v": currentPassword, "new_password__v": newPassword}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/users/me/password")
	call.Form.Set("password__v", currentPassword)
	call.Form.Set("new_password__v", newPassword)

	resp := &models.VaultResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
