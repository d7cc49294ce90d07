package pnp

import (
	"context"
	"fmt"

	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

// day0TemplatesKey marks the profile attribute that lists day-0 templates.
const day0TemplatesKey = "day0.templates"

// Each day0.templates entry is a device family. The template sits at a
// fixed depth below it: family -> series -> type -> template, always taking
// the first child. The controller's profile schema defines this depth.
var profilePath = []struct {
	level string
	index int
}{
	{"device series", 0},
	{"device type", 0},
	{"template", 0},
}

// templateNameAttr is the index of the template attribute holding its name.
const templateNameAttr = 1

// TemplateResolver finds the config id of a named day-0 template in a
// site's network profile.
type TemplateResolver struct {
	env Env
}

// NewTemplateResolver creates a resolver.
func NewTemplateResolver(env Env) *TemplateResolver {
	return &TemplateResolver{env: env}
}

// Resolve returns the config id of templateName in the profile of siteID.
// A site without a profile, or a profile without a matching template,
// yields a *util.NotFoundError.
func (r *TemplateResolver) Resolve(ctx context.Context, siteID, templateName string) (string, error) {
	path := controller.SiteProfilePath(siteID)

	var resp controller.SiteProfileResponse
	if err := r.env.Controller.Get(ctx, path, &resp); err != nil {
		return "", fmt.Errorf("loading profile for site %s: %w", siteID, err)
	}
	if len(resp.Response) == 0 {
		return "", util.NewNotFoundError("profile", siteID)
	}

	configID, err := findTemplate(path, resp.Response[0].ProfileAttributes, templateName)
	if err != nil {
		return "", err
	}
	r.env.logger().WithField("site_id", siteID).Debugf("Template %q is config %s", templateName, configID)
	return configID, nil
}

// findTemplate scans the day0.templates attributes for a template whose
// name attribute equals templateName exactly. First match wins.
func findTemplate(path string, attrs []controller.ProfileAttribute, templateName string) (string, error) {
	for _, attr := range attrs {
		if attr.Key != day0TemplatesKey {
			continue
		}
		for i, family := range attr.Attribs {
			tmpl, err := descend(family)
			if err != nil {
				return "", util.NewMalformedResponseError(path,
					fmt.Sprintf("%s entry %d (%s)", day0TemplatesKey, i, family.Value), err)
			}
			if len(tmpl.Attribs) <= templateNameAttr {
				return "", util.NewMalformedResponseError(path,
					fmt.Sprintf("template %s has no name attribute", tmpl.Value), nil)
			}
			if tmpl.Attribs[templateNameAttr].Value == templateName {
				return tmpl.Value, nil
			}
		}
	}
	return "", util.NewNotFoundError("template", templateName)
}

// descend follows profilePath from a device-family node to its template.
func descend(node controller.ProfileAttribute) (controller.ProfileAttribute, error) {
	for _, step := range profilePath {
		if step.index >= len(node.Attribs) {
			return controller.ProfileAttribute{}, fmt.Errorf("no %s at attribs[%d] below %q", step.level, step.index, node.Value)
		}
		node = node.Attribs[step.index]
	}
	return node, nil
}
