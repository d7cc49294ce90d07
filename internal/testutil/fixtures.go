package testutil

import (
	"encoding/json"

	"github.com/newtron-network/pnpclaim/pkg/controller"
)

// TemplateFixture places one named day-0 template under its own device
// family in a site profile.
type TemplateFixture struct {
	Family   string
	Name     string
	ConfigID string
}

// SitesJSON renders a group?groupType=SITE reply from name -> id pairs.
func SitesJSON(sites map[string]string) string {
	resp := controller.SiteListResponse{Response: []controller.Site{}}
	for name, id := range sites {
		resp.Response = append(resp.Response, controller.Site{ID: id, GroupNameHierarchy: name})
	}
	return mustJSON(resp)
}

// ProfileAttributes builds the profileAttributes list the controller
// returns for a site profile, with each template at the fixed
// family/series/type/template depth.
func ProfileAttributes(templates ...TemplateFixture) []controller.ProfileAttribute {
	families := make([]controller.ProfileAttribute, 0, len(templates))
	for _, t := range templates {
		family := t.Family
		if family == "" {
			family = "Switches and Hubs"
		}
		families = append(families, controller.ProfileAttribute{
			Key:   "device.family",
			Value: family,
			Attribs: []controller.ProfileAttribute{{
				Key:   "device.series",
				Value: "Cisco Catalyst 9300 Series Switches",
				Attribs: []controller.ProfileAttribute{{
					Key:   "device.type",
					Value: "Cisco Catalyst 9300 Switch",
					Attribs: []controller.ProfileAttribute{{
						Key:   "template.id",
						Value: t.ConfigID,
						Attribs: []controller.ProfileAttribute{
							{Key: "template.version", Value: "1"},
							{Key: "template.name", Value: t.Name},
						},
					}},
				}},
			}},
		})
	}

	return []controller.ProfileAttribute{
		{Key: "cli.templates", Attribs: []controller.ProfileAttribute{}},
		{Key: "day0.templates", Attribs: families},
	}
}

// SiteProfileJSON renders a siteprofile/site/{id} reply. With no templates
// it renders the empty reply of a site that has no profile.
func SiteProfileJSON(templates ...TemplateFixture) string {
	resp := controller.SiteProfileResponse{Response: []controller.SiteProfile{}}
	if len(templates) > 0 {
		resp.Response = append(resp.Response, controller.SiteProfile{
			Name:              "branch-profile",
			Namespace:         "switching",
			ProfileAttributes: ProfileAttributes(templates...),
		})
	}
	return mustJSON(resp)
}

// TemplateJSON renders a template-programmer reply declaring params in order.
func TemplateJSON(configID string, params ...string) string {
	tmpl := controller.Template{ID: configID, TemplateParams: []controller.TemplateParam{}}
	for i, p := range params {
		tmpl.TemplateParams = append(tmpl.TemplateParams, controller.TemplateParam{
			ParameterName: p,
			DataType:      "STRING",
			Required:      true,
			Order:         i + 1,
		})
	}
	return mustJSON(tmpl)
}

// ImportOK renders an import reply accepting the device as deviceID.
func ImportOK(deviceID string) string {
	return mustJSON(controller.ImportResponse{
		SuccessList: []controller.ImportedDevice{{ID: deviceID}},
		FailureList: []controller.ImportFailure{},
	})
}

// ImportRejected renders an import reply refusing the device with msg.
func ImportRejected(serial, msg string) string {
	return mustJSON(controller.ImportResponse{
		SuccessList: []controller.ImportedDevice{},
		FailureList: []controller.ImportFailure{{Index: 0, SerialNum: serial, Msg: msg}},
	})
}

// ClaimJSON renders a site-claim reply with the given status text.
func ClaimJSON(status string) string {
	return mustJSON(controller.ClaimResponse{Response: status})
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
