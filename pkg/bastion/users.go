package bastion

import (
	"context"
	"fmt"
	"net/http"
)

// User is a typed view over one platform user account.
type User struct {
	*Record

	doer Doer
	base string
}

// Username returns the login name.
func (u *User) Username() string {
	return u.String("username")
}

// Email returns the account email address.
func (u *User) Email() string {
	return u.String("email")
}

// Enabled reports whether the account may log in.
func (u *User) Enabled() bool {
	return u.Bool("enabled")
}

// Locked reports whether the account is locked out.
func (u *User) Locked() bool {
	return u.Bool("locked")
}

// Unlock clears a lockout caused by failed logins.
func (u *User) Unlock(ctx context.Context) error {
	_, err := u.doer.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   u.base + "/unlock",
	})
	if err != nil {
		return fmt.Errorf("unlocking user %d: %w", u.ID(), err)
	}

	return nil
}

// Enable allows the account to log in again.
func (u *User) Enable(ctx context.Context) error {
	return u.Update(ctx, Fields{"enabled": true})
}

// Disable blocks the account from logging in.
func (u *User) Disable(ctx context.Context) error {
	return u.Update(ctx, Fields{"enabled": false})
}

// UsersEndpoint accesses the user accounts of the platform.
type UsersEndpoint struct {
	ep   *Endpoint
	doer Doer
}

// NewUsersEndpoint creates the user collection accessor.
func NewUsersEndpoint(doer Doer, domainPath string) *UsersEndpoint {
	return &UsersEndpoint{
		ep:   NewEndpoint(doer, domainPath+"/user", "user", WithMaskedKeys("password")),
		doer: doer,
	}
}

// All returns every user.
func (e *UsersEndpoint) All(ctx context.Context) ([]*User, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Filter returns the users matching the criteria.
func (e *UsersEndpoint) Filter(ctx context.Context, criteria map[string]string) ([]*User, error) {
	records, err := e.ep.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Get returns the user with the given id.
func (e *UsersEndpoint) Get(ctx context.Context, id int) (*User, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// GetByUsername returns the single account with the given login name.
func (e *UsersEndpoint) GetByUsername(ctx context.Context, username string) (*User, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"username": username})
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Create registers a new user account.
func (e *UsersEndpoint) Create(ctx context.Context, payload Fields) (*User, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Count returns the number of users matching the criteria.
func (e *UsersEndpoint) Count(ctx context.Context, criteria map[string]string) (int, error) {
	return e.ep.Count(ctx, criteria)
}

// Endpoint exposes the underlying generic endpoint.
func (e *UsersEndpoint) Endpoint() *Endpoint {
	return e.ep
}

func (e *UsersEndpoint) wrap(record *Record) *User {
	return &User{
		Record: record,
		doer:   e.doer,
		base:   fmt.Sprintf("%s/%d", e.ep.Path(), record.ID()),
	}
}

// UserGroup is a typed view over one user group.
type UserGroup struct {
	*Record
}

// Name returns the group name.
func (g *UserGroup) Name() string {
	return g.String("name")
}

// UserGroupsEndpoint accesses the platform's user groups.
type UserGroupsEndpoint struct {
	ep *Endpoint
}

// NewUserGroupsEndpoint creates the user group collection accessor.
func NewUserGroupsEndpoint(doer Doer, domainPath string) *UserGroupsEndpoint {
	return &UserGroupsEndpoint{
		ep: NewEndpoint(doer, domainPath+"/usergroup", "usergroup"),
	}
}

// All returns every user group.
func (e *UserGroupsEndpoint) All(ctx context.Context) ([]*UserGroup, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, wrapUserGroup), nil
}

// Get returns the user group with the given id.
func (e *UserGroupsEndpoint) Get(ctx context.Context, id int) (*UserGroup, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return wrapUserGroup(record), nil
}

// GetByName returns the single group with the given name.
func (e *UserGroupsEndpoint) GetByName(ctx context.Context, name string) (*UserGroup, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	return wrapUserGroup(record), nil
}

// Create registers a new user group.
func (e *UserGroupsEndpoint) Create(ctx context.Context, payload Fields) (*UserGroup, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return wrapUserGroup(record), nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *UserGroupsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

func wrapUserGroup(record *Record) *UserGroup {
	return &UserGroup{Record: record}
}
