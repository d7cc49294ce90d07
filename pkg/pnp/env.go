// Package pnp implements bulk plug-and-play onboarding: site and template
// resolution, template parameter binding, device import and site claim,
// driven row by row from a CSV inventory.
package pnp

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/newtron-network/pnpclaim/pkg/util"
)

// Controller is the authenticated JSON transport the onboarding components
// consume. Paths are relative to the controller's API base. Implementations
// report undecodable replies as *util.MalformedResponseError.
type Controller interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Env is the shared, read-only context handed to every component at
// construction. It is built once before a batch starts.
type Env struct {
	Controller Controller
	Log        *logrus.Entry
}

func (e Env) logger() *logrus.Entry {
	if e.Log == nil {
		return logrus.NewEntry(util.Logger)
	}
	return e.Log
}
