package pnp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtron-network/pnpclaim/internal/testutil"
	"github.com/newtron-network/pnpclaim/pkg/controller"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

const (
	testSite     = "Global/US/SJC/Bldg-13"
	testSiteID   = "site-13"
	testTemplate = "c9k-day0"
	testConfigID = "cfg-c9k"
)

// controllerFor returns a fake that knows one site with one template
// declaring hostname and mgmtVlan.
func controllerFor() *testutil.FakeController {
	return testutil.NewFakeController().
		OnGet(controller.SitesPath, testutil.SitesJSON(map[string]string{testSite: testSiteID})).
		OnGet(controller.SiteProfilePath(testSiteID), testutil.SiteProfileJSON(
			testutil.TemplateFixture{Name: testTemplate, ConfigID: testConfigID})).
		OnGet(controller.TemplatePath(testConfigID), testutil.TemplateJSON(testConfigID, "hostname", "mgmtVlan"))
}

func testRow(name, serial, site string) Row {
	values := map[string]string{
		ColName:         name,
		ColSerial:       serial,
		ColPID:          "C9300-24P",
		ColSiteName:     site,
		ColTemplateName: testTemplate,
		"hostname":      name + ".sjc",
		"mgmtVlan":      "100",
	}
	return Row{
		Name:         name,
		Serial:       serial,
		PID:          "C9300-24P",
		SiteName:     site,
		TemplateName: testTemplate,
		Values:       values,
	}
}

func newTestPipeline(t *testing.T, fake *testutil.FakeController) *Pipeline {
	t.Helper()
	env := Env{Controller: fake}
	sites, err := NewSiteDirectory(context.Background(), env)
	require.NoError(t, err)
	return NewPipeline(env, sites)
}

func TestPipeline_Planned(t *testing.T) {
	fake := controllerFor().
		OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
		OnPost(controller.ClaimPath, testutil.ClaimJSON("Device Claimed"))
	p := newTestPipeline(t, fake)

	rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.NoError(t, err)
	assert.Equal(t, StageClaimed, rec.Stage)
	assert.Equal(t, StatusPlanned, rec.Status)
	assert.Equal(t, testSiteID, rec.SiteID)
	assert.Equal(t, testConfigID, rec.ConfigID)
	assert.Equal(t, "dev-1", rec.DeviceID)
	assert.Equal(t, "Device Claimed", rec.ClaimStatus)

	// Import body: a one-element list with the fixed defaults.
	imports := fake.CallsTo("POST", controller.ImportPath)
	require.Len(t, imports, 1)
	assert.JSONEq(t, `[{"deviceInfo":{
		"name":"sw-01","serialNumber":"FOC1","pid":"C9300-24P",
		"sudiRequired":false,"userSudiSerialNos":[],"stack":false,
		"aaaCredentials":{"username":"","password":""}}}]`, string(imports[0].Body))

	claims := fake.CallsTo("POST", controller.ClaimPath)
	require.Len(t, claims, 1)
	assert.JSONEq(t, `{
		"siteId":"site-13","deviceId":"dev-1","type":"Default",
		"imageInfo":{"imageId":"","skip":true},
		"configInfo":{"configId":"cfg-c9k","configParameters":[
			{"key":"hostname","value":"sw-01.sjc"},
			{"key":"mgmtVlan","value":"100"}]}}`, string(claims[0].Body))
}

func TestPipeline_Classification(t *testing.T) {
	tests := []struct {
		status string
		want   Status
	}{
		{"Device Claimed", StatusPlanned},
		{"Claimed", StatusPlanned},
		{"Error", StatusFailed},
		{"claimed", StatusFailed},
		{"", StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			fake := controllerFor().
				OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
				OnPost(controller.ClaimPath, testutil.ClaimJSON(tt.status))
			p := newTestPipeline(t, fake)

			rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
			require.NoError(t, err)
			assert.True(t, rec.Claimed())
			assert.Equal(t, tt.want, rec.Status)
		})
	}
}

func TestPipeline_UnknownSite(t *testing.T) {
	fake := controllerFor()
	p := newTestPipeline(t, fake)

	rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", "Global/Nowhere"))
	require.True(t, errors.Is(err, util.ErrNotFound))
	assert.Equal(t, StageError, rec.Stage)
	assert.Equal(t, StageStart, rec.LastStage())
	assert.Equal(t, "Cannot find site:Global/Nowhere", err.Error())

	// Only the directory snapshot read happened.
	assert.Len(t, fake.Calls(), 1)
}

func TestPipeline_UnknownTemplate(t *testing.T) {
	fake := controllerFor()
	p := newTestPipeline(t, fake)

	row := testRow("sw-01", "FOC1", testSite)
	row.TemplateName = "isr-day0"
	rec, err := p.Onboard(context.Background(), row)
	require.True(t, errors.Is(err, util.ErrNotFound))
	assert.Equal(t, StageError, rec.Stage)
	assert.Equal(t, testSiteID, rec.SiteID)
	assert.Empty(t, fake.CallsTo("POST", controller.ImportPath))
}

func TestPipeline_MissingParameter(t *testing.T) {
	fake := controllerFor()
	p := newTestPipeline(t, fake)

	row := testRow("sw-01", "FOC1", testSite)
	delete(row.Values, "mgmtVlan")
	rec, err := p.Onboard(context.Background(), row)
	require.True(t, errors.Is(err, util.ErrMissingParameter))
	assert.False(t, errors.Is(err, util.ErrNotFound))
	assert.Equal(t, StageError, rec.Stage)
	assert.Equal(t, StageTemplateResolved, rec.LastStage())
	assert.Empty(t, fake.CallsTo("POST", controller.ImportPath))
}

func TestPipeline_ImportRejected(t *testing.T) {
	fake := controllerFor().
		OnPost(controller.ImportPath, testutil.ImportRejected("FOC1", "Device with serial number FOC1 already exists"))
	p := newTestPipeline(t, fake)

	rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.NoError(t, err)
	assert.Equal(t, StageSkipped, rec.Stage)
	assert.False(t, rec.Claimed())
	assert.Equal(t, "Device with serial number FOC1 already exists", rec.SkipReason)
	assert.Empty(t, fake.CallsTo("POST", controller.ClaimPath), "no claim after a rejected import")
}

func TestPipeline_ImportRejectedWithoutReason(t *testing.T) {
	fake := controllerFor().OnPost(controller.ImportPath, `{"successList":[],"failureList":[]}`)
	p := newTestPipeline(t, fake)

	rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.NoError(t, err)
	assert.Equal(t, StageSkipped, rec.Stage)
	assert.Equal(t, "unknown", rec.SkipReason)
}

func TestPipeline_ClaimTransportError(t *testing.T) {
	boom := errors.New("connection reset by peer")
	fake := controllerFor().
		OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
		FailPost(controller.ClaimPath, boom)
	p := newTestPipeline(t, fake)

	rec, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.True(t, errors.Is(err, boom))
	assert.Equal(t, StageImported, rec.Stage, "import is not rolled back")
	assert.Equal(t, "dev-1", rec.DeviceID)
}

func TestPipeline_MalformedClaim(t *testing.T) {
	fake := controllerFor().
		OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
		OnPost(controller.ClaimPath, `{"response":{"status":"Claimed"}}`)
	p := newTestPipeline(t, fake)

	_, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	assert.True(t, errors.Is(err, util.ErrMalformedResponse))
}

func TestPipeline_CallOrder(t *testing.T) {
	fake := controllerFor().
		OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
		OnPost(controller.ClaimPath, testutil.ClaimJSON("Device Claimed"))
	p := newTestPipeline(t, fake)

	_, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.NoError(t, err)

	var got []string
	for _, c := range fake.Calls() {
		got = append(got, c.Method+" "+c.Path)
	}
	assert.Equal(t, []string{
		"GET " + controller.SitesPath,
		"GET " + controller.SiteProfilePath(testSiteID),
		"GET " + controller.TemplatePath(testConfigID),
		"POST " + controller.ImportPath,
		"POST " + controller.ClaimPath,
	}, got)
}

func TestPipeline_EmptyParamsSentAsList(t *testing.T) {
	fake := testutil.NewFakeController().
		OnGet(controller.SitesPath, testutil.SitesJSON(map[string]string{testSite: testSiteID})).
		OnGet(controller.SiteProfilePath(testSiteID), testutil.SiteProfileJSON(
			testutil.TemplateFixture{Name: testTemplate, ConfigID: testConfigID})).
		OnGet(controller.TemplatePath(testConfigID), testutil.TemplateJSON(testConfigID)).
		OnPost(controller.ImportPath, testutil.ImportOK("dev-1")).
		OnPost(controller.ClaimPath, testutil.ClaimJSON("Device Claimed"))
	p := newTestPipeline(t, fake)

	_, err := p.Onboard(context.Background(), testRow("sw-01", "FOC1", testSite))
	require.NoError(t, err)

	var claim controller.ClaimRequest
	require.NoError(t, json.Unmarshal(fake.CallsTo("POST", controller.ClaimPath)[0].Body, &claim))
	assert.NotNil(t, claim.ConfigInfo.ConfigParameters)
	assert.Contains(t, string(fake.CallsTo("POST", controller.ClaimPath)[0].Body), `"configParameters":[]`)
}
