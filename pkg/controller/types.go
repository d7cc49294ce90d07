package controller

import "fmt"

// API paths, relative to the controller's API base.
const (
	SitesPath  = "group?groupType=SITE"
	ImportPath = "onboarding/pnp-device/import"
	ClaimPath  = "onboarding/pnp-device/site-claim"
)

// SiteProfilePath returns the network-profile path for a site.
func SiteProfilePath(siteID string) string {
	return fmt.Sprintf("siteprofile/site/%s", siteID)
}

// TemplatePath returns the template-programmer path for a config id.
func TemplatePath(configID string) string {
	return fmt.Sprintf("template-programmer/template/%s", configID)
}

// ============================================================================
// Sites
// ============================================================================

// Site is one entry of the controller's site hierarchy.
type Site struct {
	ID                 string `json:"id"`
	GroupNameHierarchy string `json:"groupNameHierarchy"`
	Name               string `json:"name,omitempty"`
}

// SiteListResponse is returned by GET group?groupType=SITE.
type SiteListResponse struct {
	Response []Site `json:"response"`
}

// ============================================================================
// Site profiles
// ============================================================================

// ProfileAttribute is a node of the site profile attribute tree. The same
// shape is used at every level: the day0.templates key, device family,
// device series, device type and finally the template itself, whose Value
// is the config id and whose second attribute carries the template name.
type ProfileAttribute struct {
	Key     string             `json:"key,omitempty"`
	Value   string             `json:"value,omitempty"`
	Attribs []ProfileAttribute `json:"attribs,omitempty"`
}

// SiteProfile is a network profile assigned to a site.
type SiteProfile struct {
	ID                string             `json:"siteProfileUuid,omitempty"`
	Name              string             `json:"name,omitempty"`
	Namespace         string             `json:"namespace,omitempty"`
	ProfileAttributes []ProfileAttribute `json:"profileAttributes"`
}

// SiteProfileResponse is returned by GET siteprofile/site/{siteId}. An empty
// Response means the site has no profile.
type SiteProfileResponse struct {
	Response []SiteProfile `json:"response"`
}

// ============================================================================
// Templates
// ============================================================================

// TemplateParam is one declared template variable.
type TemplateParam struct {
	ParameterName string `json:"parameterName"`
	DataType      string `json:"dataType,omitempty"`
	Required      bool   `json:"required,omitempty"`
	Order         int    `json:"order,omitempty"`
}

// Template is returned by GET template-programmer/template/{configId}.
type Template struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name,omitempty"`
	TemplateParams []TemplateParam `json:"templateParams"`
}

// ConfigParameter is a bound template variable sent with a claim.
type ConfigParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ============================================================================
// PnP import
// ============================================================================

// AAACredentials are the per-device AAA credentials; left empty on import.
type AAACredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DeviceInfo describes a device registered with the PnP database.
type DeviceInfo struct {
	Name              string         `json:"name"`
	SerialNumber      string         `json:"serialNumber"`
	PID               string         `json:"pid"`
	SudiRequired      bool           `json:"sudiRequired"`
	UserSudiSerialNos []string       `json:"userSudiSerialNos"`
	Stack             bool           `json:"stack"`
	AAACredentials    AAACredentials `json:"aaaCredentials"`
}

// ImportEntry is one element of the bulk import request body.
type ImportEntry struct {
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// NewImportEntry builds an import entry with the fixed onboarding defaults:
// no SUDI, not stacked, empty AAA credentials.
func NewImportEntry(name, serial, pid string) ImportEntry {
	return ImportEntry{
		DeviceInfo: DeviceInfo{
			Name:              name,
			SerialNumber:      serial,
			PID:               pid,
			SudiRequired:      false,
			UserSudiSerialNos: []string{},
			Stack:             false,
			AAACredentials:    AAACredentials{},
		},
	}
}

// ImportedDevice is a success-list entry of the import response.
type ImportedDevice struct {
	ID         string     `json:"id"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// ImportFailure is a failure-list entry of the import response.
type ImportFailure struct {
	Index     int    `json:"index"`
	SerialNum string `json:"serialNum,omitempty"`
	ID        string `json:"id,omitempty"`
	Msg       string `json:"msg"`
}

// ImportResponse is returned by POST onboarding/pnp-device/import.
type ImportResponse struct {
	SuccessList []ImportedDevice `json:"successList"`
	FailureList []ImportFailure  `json:"failureList"`
}

// ============================================================================
// PnP site claim
// ============================================================================

// ImageInfo controls image upgrade during claim.
type ImageInfo struct {
	ImageID string `json:"imageId"`
	Skip    bool   `json:"skip"`
}

// ConfigInfo carries the day-0 template and its bound parameters.
type ConfigInfo struct {
	ConfigID         string            `json:"configId"`
	ConfigParameters []ConfigParameter `json:"configParameters"`
}

// ClaimRequest is the body of POST onboarding/pnp-device/site-claim.
type ClaimRequest struct {
	SiteID     string     `json:"siteId"`
	DeviceID   string     `json:"deviceId"`
	Type       string     `json:"type"`
	ImageInfo  ImageInfo  `json:"imageInfo"`
	ConfigInfo ConfigInfo `json:"configInfo"`
}

// ClaimResponse carries the controller's human-readable claim status.
type ClaimResponse struct {
	Response string `json:"response"`
}
