package request

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/models"
)

// GroupRequest covers user groups
type GroupRequest struct {
	vaultRequest

	includeImplied bool
	limit          int
	offset         int
}

// NewGroupRequest creates a group builder
func NewGroupRequest(c *client.Client) *GroupRequest {
	return &GroupRequest{vaultRequest: newVaultRequest(c)}
}

// SetIncludeImplied adds implied members to the results
func (r *GroupRequest) SetIncludeImplied(include bool) *GroupRequest {
	r.includeImplied = include
	return r
}

// SetLimit sets the page size of auto managed groups
func (r *GroupRequest) SetLimit(limit int) *GroupRequest {
	r.limit = limit
	return r
}

// SetOffset sets the paging offset of auto managed groups
func (r *GroupRequest) SetOffset(offset int) *GroupRequest {
	r.offset = offset
	return r
}

func groupPath(groupID int64) string {
	return "/objects/groups/" + strconv.FormatInt(groupID, 10)
}

func validateGroupID(groupID int64) error {
	return validation.Errors{
		"group_id": validation.Validate(groupID, validation.Required, validation.Min(int64(1))),
	}.Filter()
}

// RetrieveGroupMetadata describes the fields of the group object
func (r *GroupRequest) RetrieveGroupMetadata(ctx context.Context) (*models.MetadataResponse, error) {
	resp := &models.MetadataResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodGet, "/metadata/objects/groups"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAllGroups lists groups, excluding auto managed ones
func (r *GroupRequest) RetrieveAllGroups(ctx context.Context) (*models.GroupRetrieveResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/groups")
	if r.includeImplied {
		call.Query.Set("includeImplied", "true")
	}

	resp := &models.GroupRetrieveResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAutoManagedGroups lists groups maintained by Vault
func (r *GroupRequest) RetrieveAutoManagedGroups(ctx context.Context) (*models.GroupRetrieveResponse, error) {
	call := client.NewCall(http.MethodGet, "/objects/groups/auto")
	setInt(call.Query, "limit", r.limit)
	setInt(call.Query, "offset", r.offset)

	resp := &models.GroupRetrieveResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveGroup reads a single group
func (r *GroupRequest) RetrieveGroup(ctx context.Context, groupID int64) (*models.GroupRetrieveResponse, error) {
	if err := validateGroupID(groupID); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodGet, groupPath(groupID))
	if r.includeImplied {
		call.Query.Set("includeImplied", "true")
	}

	resp := &models.GroupRetrieveResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateGroup creates a group labelled label with optional extra fields
func (r *GroupRequest) CreateGroup(ctx context.Context, label string, fields map[string]string) (*models.GroupResponse, error) {
	if err := validateRequired(map[string]string{"label__v": label}); err != nil {
		return nil, err
	}

	call := client.NewCall(http.MethodPost, "/objects/groups")
	setFields(call, fields)
	call.Form.Set("label__v", label)

	resp := &models.GroupResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateGroup updates field values of a group
func (r *GroupRequest) UpdateGroup(ctx context.Context, groupID int64, fields map[string]string) (*models.GroupResponse, error) {
	if err := validateGroupID(groupID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("group fields are required")
	}

	call := client.NewCall(http.MethodPut, groupPath(groupID))
	setFields(call, fields)

	resp := &models.GroupResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteGroup deletes a user defined group
func (r *GroupRequest) DeleteGroup(ctx context.Context, groupID int64) (*models.GroupResponse, error) {
	if err := validateGroupID(groupID); err != nil {
		return nil, err
	}

	resp := &models.GroupResponse{}
	if err := r.send(ctx, client.NewCall(http.MethodDelete, groupPath(groupID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}
