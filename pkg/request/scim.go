package request

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ylchen07/go-vapil/pkg/client"
	"github.com/ylchen07/go-vapil/pkg/connector"
	"github.com/ylchen07/go-vapil/pkg/models"
)

const scimBase = "/scim/v2"

// SCIMRequest covers the SCIM 2.0 user provisioning endpoints
type SCIMRequest struct {
	vaultRequest

	filter             string
	attributes         string
	excludedAttributes string
	sortBy             string
	sortOrder          string
	count              int
	startIndex         int
}

// NewSCIMRequest creates a SCIM builder
func NewSCIMRequest(c *client.Client) *SCIMRequest {
	return &SCIMRequest{vaultRequest: newVaultRequest(c)}
}

// SetFilter filters users, e.g. `userName eq "john"`
func (r *SCIMRequest) SetFilter(filter string) *SCIMRequest {
	r.filter = filter
	return r
}

// SetAttributes limits the attributes returned
func (r *SCIMRequest) SetAttributes(attributes string) *SCIMRequest {
	r.attributes = attributes
	return r
}

// SetExcludedAttributes removes attributes from the result
func (r *SCIMRequest) SetExcludedAttributes(attributes string) *SCIMRequest {
	r.excludedAttributes = attributes
	return r
}

// SetSortBy sets the attribute to sort by
func (r *SCIMRequest) SetSortBy(attribute string) *SCIMRequest {
	r.sortBy = attribute
	return r
}

// SetSortOrder sets ascending or descending
func (r *SCIMRequest) SetSortOrder(order string) *SCIMRequest {
	r.sortOrder = order
	return r
}

// SetCount sets the page size
func (r *SCIMRequest) SetCount(count int) *SCIMRequest {
	r.count = count
	return r
}

// SetStartIndex sets the 1-based index of the first result
func (r *SCIMRequest) SetStartIndex(index int) *SCIMRequest {
	r.startIndex = index
	return r
}

func newSCIMCall(method, path string) *client.Call {
	call := client.NewCall(method, scimBase+path)
	call.Accept = connector.ContentTypeSCIM
	return call
}

func (r *SCIMRequest) attributeFilters(call *client.Call) {
	call.SetQuery("attributes", r.attributes)
	call.SetQuery("excludedAttributes", r.excludedAttributes)
}

// RetrieveSCIMProvider describes the SCIM features Vault supports
func (r *SCIMRequest) RetrieveSCIMProvider(ctx context.Context) (*models.ScimServiceProviderResponse, error) {
	resp := &models.ScimServiceProviderResponse{}
	if err := r.send(ctx, newSCIMCall(http.MethodGet, "/ServiceProviderConfig"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAllSCIMSchemaInfo lists the supported schemas
func (r *SCIMRequest) RetrieveAllSCIMSchemaInfo(ctx context.Context) (*models.ScimSchemaListResponse, error) {
	resp := &models.ScimSchemaListResponse{}
	if err := r.send(ctx, newSCIMCall(http.MethodGet, "/Schemas"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveSingleSCIMSchemaInfo describes one schema by URN
func (r *SCIMRequest) RetrieveSingleSCIMSchemaInfo(ctx context.Context, schemaID string) (*models.ScimSchemaResponse, error) {
	if err := validateRequired(map[string]string{"schema_id": schemaID}); err != nil {
		return nil, err
	}

	resp := &models.ScimSchemaResponse{}
	if err := r.send(ctx, newSCIMCall(http.MethodGet, "/Schemas/"+url.PathEscape(schemaID)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAllSCIMResourceTypes lists the supported resource types
func (r *SCIMRequest) RetrieveAllSCIMResourceTypes(ctx context.Context) (*models.ScimResourceTypeListResponse, error) {
	resp := &models.ScimResourceTypeListResponse{}
	if err := r.send(ctx, newSCIMCall(http.MethodGet, "/ResourceTypes"), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveSingleSCIMResourceType describes one resource type, e.g. User
func (r *SCIMRequest) RetrieveSingleSCIMResourceType(ctx context.Context, resourceType string) (*models.ScimResourceTypeResponse, error) {
	if err := validateRequired(map[string]string{"resource_type": resourceType}); err != nil {
		return nil, err
	}

	resp := &models.ScimResourceTypeResponse{}
	if err := r.send(ctx, newSCIMCall(http.MethodGet, "/ResourceTypes/"+url.PathEscape(resourceType)), resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveAllUsers lists users matching the filter
func (r *SCIMRequest) RetrieveAllUsers(ctx context.Context) (*models.ScimUserListResponse, error) {
	call := newSCIMCall(http.MethodGet, "/Users")
	call.SetQuery("filter", r.filter)
	r.attributeFilters(call)
	call.SetQuery("sortBy", r.sortBy)
	call.SetQuery("sortOrder", r.sortOrder)
	setInt(call.Query, "count", r.count)
	setInt(call.Query, "startIndex", r.startIndex)

	resp := &models.ScimUserListResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveSingleUser reads a user by ID
func (r *SCIMRequest) RetrieveSingleUser(ctx context.Context, userID string) (*models.ScimUserResponse, error) {
	if err := validateRequired(map[string]string{"user_id": userID}); err != nil {
		return nil, err
	}

	call := newSCIMCall(http.MethodGet, "/Users/"+url.PathEscape(userID))
	r.attributeFilters(call)

	resp := &models.ScimUserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RetrieveCurrentUser reads the user owning the session
func (r *SCIMRequest) RetrieveCurrentUser(ctx context.Context) (*models.ScimUserResponse, error) {
	call := newSCIMCall(http.MethodGet, "/Me")
	r.attributeFilters(call)

	resp := &models.ScimUserResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateUser provisions a user. Schemas default to the core user schema.
func (r *SCIMRequest) CreateUser(ctx context.Context, user models.ScimUser) (*models.ScimCreateResponse, error) {
	if err := validateRequired(map[string]string{"userName": user.UserName}); err != nil {
		return nil, err
	}
	if len(user.Schemas) == 0 {
		user.Schemas = []string{models.ScimSchemaUser}
	}

	call := newSCIMCall(http.MethodPost, "/Users")
	call.JSON = user
	call.ContentType = connector.ContentTypeSCIM

	resp := &models.ScimCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateUser replaces the attributes of a user
func (r *SCIMRequest) UpdateUser(ctx context.Context, userID string, user models.ScimUser) (*models.ScimCreateResponse, error) {
	if err := validateRequired(map[string]string{"user_id": userID}); err != nil {
		return nil, err
	}
	if len(user.Schemas) == 0 {
		user.Schemas = []string{models.ScimSchemaUser}
	}

	call := newSCIMCall(http.MethodPut, "/Users/"+url.PathEscape(userID))
	call.JSON = user
	call.ContentType = connector.ContentTypeSCIM

	resp := &models.ScimCreateResponse{}
	if err := r.send(ctx, call, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
