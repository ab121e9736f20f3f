package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// App is the common behavior of every backend application: request paths
// scoped under "<name>/api", and a lazily loaded dynamic operation set.
type App struct {
	name       string
	doer       bastion.Doer
	appPath    string
	domainPath string

	mu  sync.Mutex
	ops *bastion.OperationSet
}

// NewApp creates the base accessor for one backend application.
func NewApp(doer bastion.Doer, name string, domainID int) *App {
	appPath := "/" + name + "/api"

	return &App{
		name:       name,
		doer:       doer,
		appPath:    appPath,
		domainPath: appPath + "/domain/" + strconv.Itoa(domainID),
	}
}

// Name implements bastion.App.
func (a *App) Name() string {
	return a.name
}

// AppPath returns the application's URL prefix.
func (a *App) AppPath() string {
	return a.appPath
}

// DomainPath returns the application's domain-scoped URL prefix.
func (a *App) DomainPath() string {
	return a.domainPath
}

// Request implements bastion.App. Relative paths are resolved under the
// application prefix; paths starting with "/" pass through unchanged.
func (a *App) Request(ctx context.Context, req *bastion.Request) (*bastion.Response, error) {
	scoped := *req

	if !strings.HasPrefix(scoped.Path, "/") {
		scoped.Path = a.appPath + "/" + scoped.Path
	}

	resp, err := a.doer.Do(ctx, &scoped)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", a.name, err)
	}

	return resp, nil
}

// Operations implements bastion.App. The API description is fetched and
// the dispatch table built on first use, then reused.
func (a *App) Operations(ctx context.Context) (*bastion.OperationSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ops != nil {
		return a.ops, nil
	}

	resp, err := a.doer.Do(ctx, &bastion.Request{
		Method: http.MethodGet,
		Path:   a.appPath + "/openapi.json",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s API description: %w", a.name, err)
	}

	doc, err := bastion.ParseAPIDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s API description: %w", a.name, err)
	}

	a.ops = bastion.NewOperationSet(a.doer, a.appPath, doc)

	return a.ops, nil
}
