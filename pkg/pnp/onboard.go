package pnp

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

// Stage is the furthest point a row reached in the onboarding pipeline.
type Stage string

const (
	StageStart            Stage = "START"
	StageSiteResolved     Stage = "SITE_RESOLVED"
	StageTemplateResolved Stage = "TEMPLATE_RESOLVED"
	StageParamsBound      Stage = "PARAMS_BOUND"
	StageImported         Stage = "IMPORTED"
	StageClaimed          Stage = "CLAIMED"
	StageSkipped          Stage = "SKIPPED"
	StageError            Stage = "ERROR"
)

// Status is the reported outcome of a claimed device.
type Status string

const (
	StatusPlanned Status = "PLANNED"
	StatusFailed  Status = "FAILED"
)

const (
	claimType      = "Default"
	claimedMarker  = "Claimed"
	unknownFailure = "unknown"
)

// Record carries one row through the pipeline. It is not persisted.
type Record struct {
	Row         Row
	SiteID      string
	ConfigID    string
	Params      []controller.ConfigParameter
	DeviceID    string
	ClaimStatus string
	SkipReason  string
	Stage       Stage
	Status      Status

	// Reached is the last stage completed before the row entered ERROR.
	Reached Stage
}

// Claimed reports whether the row reached classification.
func (r *Record) Claimed() bool {
	return r.Stage == StageClaimed
}

// LastStage returns the furthest stage the row completed, looking past
// ERROR.
func (r *Record) LastStage() Stage {
	if r.Stage == StageError {
		return r.Reached
	}
	return r.Stage
}

func (r *Record) fail(err error) (*Record, error) {
	r.Reached = r.Stage
	r.Stage = StageError
	return r, err
}

// Pipeline onboards a single inventory row: resolve site, resolve
// template, bind parameters, import, claim, classify. Each row is run
// once; nothing is retried or rolled back.
type Pipeline struct {
	env       Env
	sites     *SiteDirectory
	templates *TemplateResolver
	binder    *ParameterBinder
}

// NewPipeline creates a pipeline over a prebuilt site directory.
func NewPipeline(env Env, sites *SiteDirectory) *Pipeline {
	return &Pipeline{
		env:       env,
		sites:     sites,
		templates: NewTemplateResolver(env),
		binder:    NewParameterBinder(env),
	}
}

// Onboard runs the pipeline for row. The returned record always reflects
// the furthest stage reached. Site and template resolution failures are
// returned unwrapped as *util.NotFoundError; every other error is fatal to
// the batch.
func (p *Pipeline) Onboard(ctx context.Context, row Row) (*Record, error) {
	rec := &Record{Row: row, Stage: StageStart}
	log := util.WithDevice(p.env.logger(), row.Name, row.Serial)

	siteID, err := p.sites.Lookup(row.SiteName)
	if err != nil {
		return rec.fail(err)
	}
	rec.SiteID = siteID
	rec.Stage = StageSiteResolved
	log.Debugf("Site %q is %s", row.SiteName, siteID)

	configID, err := p.templates.Resolve(ctx, siteID, row.TemplateName)
	if err != nil {
		return rec.fail(err)
	}
	rec.ConfigID = configID
	rec.Stage = StageTemplateResolved

	params, err := p.binder.Bind(ctx, configID, row.Values)
	if err != nil {
		return rec.fail(err)
	}
	rec.Params = params
	rec.Stage = StageParamsBound
	log.Debugf("Bound %d template parameters", len(params))

	deviceID, reason, err := p.importDevice(ctx, row)
	if err != nil {
		return rec, err
	}
	if deviceID == "" {
		rec.SkipReason = reason
		rec.Stage = StageSkipped
		log.Debugf("Import rejected: %s", reason)
		return rec, nil
	}
	rec.DeviceID = deviceID
	rec.Stage = StageImported
	log.Debugf("Imported as %s", deviceID)

	status, err := p.claimDevice(ctx, rec)
	if err != nil {
		return rec, err
	}
	rec.ClaimStatus = status
	rec.Stage = StageClaimed
	rec.Status = classify(status)
	log.Debugf("Claim status %q -> %s", status, rec.Status)
	return rec, nil
}

// importDevice registers the device and returns its assigned id, or an
// empty id and the controller's reason when the import was rejected.
func (p *Pipeline) importDevice(ctx context.Context, row Row) (string, string, error) {
	body := []controller.ImportEntry{controller.NewImportEntry(row.Name, row.Serial, row.PID)}

	var resp controller.ImportResponse
	if err := p.env.Controller.Post(ctx, controller.ImportPath, body, &resp); err != nil {
		return "", "", fmt.Errorf("importing %s (%s): %w", row.Name, row.Serial, err)
	}
	if len(resp.SuccessList) > 0 {
		if resp.SuccessList[0].ID == "" {
			return "", "", util.NewMalformedResponseError(controller.ImportPath, "success entry without id", nil)
		}
		return resp.SuccessList[0].ID, "", nil
	}
	if len(resp.FailureList) > 0 {
		return "", resp.FailureList[0].Msg, nil
	}
	return "", unknownFailure, nil
}

// claimDevice assigns an imported device to its site with the bound
// day-0 template and returns the controller's status text.
func (p *Pipeline) claimDevice(ctx context.Context, rec *Record) (string, error) {
	params := rec.Params
	if params == nil {
		params = []controller.ConfigParameter{}
	}
	req := controller.ClaimRequest{
		SiteID:   rec.SiteID,
		DeviceID: rec.DeviceID,
		Type:     claimType,
		ImageInfo: controller.ImageInfo{
			ImageID: "",
			Skip:    true,
		},
		ConfigInfo: controller.ConfigInfo{
			ConfigID:         rec.ConfigID,
			ConfigParameters: params,
		},
	}

	var resp controller.ClaimResponse
	if err := p.env.Controller.Post(ctx, controller.ClaimPath, req, &resp); err != nil {
		return "", fmt.Errorf("claiming %s (%s): %w", rec.Row.Name, rec.Row.Serial, err)
	}
	return resp.Response, nil
}

func classify(claimStatus string) Status {
	if strings.Contains(claimStatus, claimedMarker) {
		return StatusPlanned
	}
	return StatusFailed
}
