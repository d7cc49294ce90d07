package pnp

import (
	"context"
	"fmt"

	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

// SiteDirectory maps fully-qualified site names ("Global/Area/Building")
// to controller site ids. It is a snapshot taken at construction and is
// never refreshed; sites created afterwards are not visible.
type SiteDirectory struct {
	sites map[string]string
}

// NewSiteDirectory fetches the controller's full site list.
func NewSiteDirectory(ctx context.Context, env Env) (*SiteDirectory, error) {
	var resp controller.SiteListResponse
	if err := env.Controller.Get(ctx, controller.SitesPath, &resp); err != nil {
		return nil, fmt.Errorf("loading site list: %w", err)
	}

	d := &SiteDirectory{sites: make(map[string]string, len(resp.Response))}
	for _, s := range resp.Response {
		d.sites[s.GroupNameHierarchy] = s.ID
	}
	env.logger().Debugf("Loaded %d sites", len(d.sites))
	return d, nil
}

// Lookup returns the site id for a fully-qualified site name.
func (d *SiteDirectory) Lookup(name string) (string, error) {
	id, ok := d.sites[name]
	if !ok {
		return "", util.NewNotFoundError("site", name)
	}
	return id, nil
}

// Len returns the number of sites in the snapshot.
func (d *SiteDirectory) Len() int {
	return len(d.sites)
}
