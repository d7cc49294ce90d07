package pnp

import (
	"context"
	"fmt"

	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

// ParameterBinder binds a template's declared variables to inventory values.
type ParameterBinder struct {
	env Env
}

// NewParameterBinder creates a binder.
func NewParameterBinder(env Env) *ParameterBinder {
	return &ParameterBinder{env: env}
}

// Bind fetches the declared parameters of configID and returns one
// key/value pair per declared name, in declaration order, with the value
// taken from values. A declared name absent from values fails the whole
// bind with a *util.MissingParameterError.
func (b *ParameterBinder) Bind(ctx context.Context, configID string, values map[string]string) ([]controller.ConfigParameter, error) {
	var tmpl controller.Template
	if err := b.env.Controller.Get(ctx, controller.TemplatePath(configID), &tmpl); err != nil {
		return nil, fmt.Errorf("loading template %s: %w", configID, err)
	}

	params := make([]controller.ConfigParameter, 0, len(tmpl.TemplateParams))
	for _, p := range tmpl.TemplateParams {
		v, ok := values[p.ParameterName]
		if !ok {
			return nil, util.NewMissingParameterError(p.ParameterName, configID)
		}
		params = append(params, controller.ConfigParameter{Key: p.ParameterName, Value: v})
	}
	return params, nil
}
