package models

// User is a Vault user record
type User struct {
	ID               int    `json:"id"`
	UserName         string `json:"user_name__v,omitempty"`
	FirstName        string `json:"user_first_name__v,omitempty"`
	LastName         string `json:"user_last_name__v,omitempty"`
	Email            string `json:"user_email__v,omitempty"`
	Timezone         string `json:"user_timezone__v,omitempty"`
	Locale           string `json:"user_locale__v,omitempty"`
	Language         string `json:"user_language__v,omitempty"`
	SecurityPolicyID int    `json:"security_policy_id__v,omitempty"`
	SecurityProfile  string `json:"security_profile__v,omitempty"`
	LicenseType      string `json:"license_type__v,omitempty"`
	FederatedID      string `json:"federated_id__v,omitempty"`
	Active           bool   `json:"active__v,omitempty"`
	DomainActive     bool   `json:"domain_active__v,omitempty"`
	VaultMembership  []struct {
		ID              int    `json:"id"`
		Active          bool   `json:"active__v"`
		SecurityProfile string `json:"security_profile__v,omitempty"`
		LicenseType     string `json:"license_type__v,omitempty"`
	} `json:"vault_membership,omitempty"`
}

// UserResponse is returned by single user endpoints
type UserResponse struct {
	VaultResponse
	ID    int   `json:"id,omitempty"`
	Users []struct {
		User User `json:"user"`
	} `json:"users,omitempty"`
}

// User returns the first user entry, if any
func (r *UserResponse) User() (User, bool) {
	if len(r.Users) == 0 {
		return User{}, false
	}
	return r.Users[0].User, true
}

// UserRetrieveResponse is returned when listing users
type UserRetrieveResponse struct {
	VaultResponse
	Size  int    `json:"size,omitempty"`
	Start int    `json:"start,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Sort  string `json:"sort,omitempty"`
	Users []struct {
		User User `json:"user"`
	} `json:"users,omitempty"`
}

// UserPermissionResponse lists object and field permissions of a user
type UserPermissionResponse struct {
	VaultResponse
	Data []struct {
		Name        string          `json:"name"`
		Permissions map[string]bool `json:"permissions"`
	} `json:"data,omitempty"`
}
