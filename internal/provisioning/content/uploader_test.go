package content

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/langflow-bootstrap/internal/flowsource"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
	"github.com/imamik/langflow-bootstrap/internal/provisioning/provisioningtest"
	testutil "github.com/imamik/langflow-bootstrap/internal/testing"
)

// authedContext returns a context logged in as the fake's superuser.
func authedContext(t *testing.T, fake *testutil.FakeLangflow) (*provisioning.Context, *provisioningtest.RecordingObserver) {
	t.Helper()
	fake.AddUser("admin", "admin-pass", true, true)
	cfg := testutil.NewConfigBuilder(fake.URL()).Build()
	ctx, observer, _ := provisioningtest.NewContext(t, cfg, testutil.NewMemorySink())

	token, err := ctx.Client.Login(ctx, "admin", "admin-pass")
	require.NoError(t, err)
	ctx.State.Superuser = langflow.Credential{Username: "admin", Password: "admin-pass", Token: token}
	return ctx, observer
}

func superuserSession(t *testing.T, ctx *provisioning.Context) langflow.Session {
	t.Helper()
	sess, err := ctx.State.SessionFor(provisioning.PrincipalSuperuser)
	require.NoError(t, err)
	return sess
}

func TestUploader_GlobalAndProjectFiles(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, _ := authedContext(t, fake)

	src := flowsource.NewFS("flows", fstest.MapFS{
		"x.json":       {Data: testutil.FlowDocument("X")},
		"proj1/y.json": {Data: testutil.FlowDocument("Y")},
	})

	result, err := NewUploader(ctx, "desc").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.Empty(t, result.Failed())

	projects := fake.Projects("admin")
	require.Len(t, projects, 1)
	assert.Equal(t, "proj1", projects[0].Name)
	assert.Equal(t, "desc", projects[0].Description)

	uploads := fake.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "x.json", uploads[0].Filename)
	assert.Empty(t, uploads[0].FolderID)
	assert.Equal(t, "application/json", uploads[0].ContentType)
	assert.Equal(t, "y.json", uploads[1].Filename)
	assert.Equal(t, projects[0].ID, uploads[1].FolderID)
	assert.Equal(t, projects[0].ID, result.Outcomes[1].ProjectID)
}

func TestUploader_ReusesExistingProject(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, observer := authedContext(t, fake)
	existing := fake.AddProject("admin", "proj1")

	src := flowsource.NewFS("flows", fstest.MapFS{
		"proj1/a.json": {Data: testutil.FlowDocument("A")},
		"proj1/b.json": {Data: testutil.FlowDocument("B")},
	})

	result, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count(provisioning.OutcomeUploaded))
	assert.Equal(t, 0, fake.Calls(testutil.RouteCreateProject))
	assert.Len(t, fake.Projects("admin"), 1)
	assert.Len(t, observer.Events(provisioning.EventResourceExists), 1)
	for _, u := range fake.Uploads() {
		assert.Equal(t, existing, u.FolderID)
	}
}

func TestUploader_RejectedUploadContinues(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, _ := authedContext(t, fake)
	fake.SetStatus(testutil.RouteUploadFlow, 422)

	src := flowsource.NewFS("flows", fstest.MapFS{
		"a.json": {Data: testutil.FlowDocument("A")},
		"b.json": {Data: testutil.FlowDocument("B")},
	})

	result, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	for _, o := range result.Outcomes {
		assert.Equal(t, provisioning.OutcomeFailed, o.Status)
		assert.Equal(t, 422, o.StatusCode)
		assert.Contains(t, o.Body, "forced status 422")
		assert.True(t, langflow.IsStatus(o.Err, 422))
	}
	assert.Equal(t, 2, fake.Calls(testutil.RouteUploadFlow))
}

func TestUploader_ProjectFailureSkipsItsFiles(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, observer := authedContext(t, fake)
	fake.SetStatus(testutil.RouteCreateProject, 500)

	src := flowsource.NewFS("flows", fstest.MapFS{
		"g.json":       {Data: testutil.FlowDocument("G")},
		"proj1/a.json": {Data: testutil.FlowDocument("A")},
		"proj1/b.json": {Data: testutil.FlowDocument("B")},
		"empty":        {Mode: fs.ModeDir | 0o755},
	})

	result, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count(provisioning.OutcomeUploaded))
	assert.Equal(t, 2, result.Count(provisioning.OutcomeSkipped))
	assert.Equal(t, 1, result.Count(provisioning.OutcomeFailed))
	assert.Len(t, result.Failed(), 3)
	assert.Len(t, observer.Events(provisioning.EventResourceSkipped), 2)
	assert.Len(t, fake.Uploads(), 1)

	var emptyOutcome provisioning.UploadOutcome
	for _, o := range result.Outcomes {
		if o.Project == "empty" {
			emptyOutcome = o
		}
	}
	assert.Equal(t, "empty/", emptyOutcome.Path)
	assert.True(t, langflow.IsStatus(emptyOutcome.Err, 500))
}

type brokenSource struct {
	flowsource.Source
}

func (s brokenSource) Open(context.Context, flowsource.FlowFile) (io.ReadCloser, error) {
	return nil, errors.New("disk on fire")
}

func TestUploader_OpenFailure(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, _ := authedContext(t, fake)

	src := brokenSource{flowsource.NewFS("flows", fstest.MapFS{
		"a.json": {Data: testutil.FlowDocument("A")},
	})}

	result, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.EqualError(t, result.Outcomes[0].Err, "disk on fire")
	assert.Equal(t, 0, fake.Calls(testutil.RouteUploadFlow))
}

func TestUploader_MissingRoot(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, _ := authedContext(t, fake)

	_, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), flowsource.NewDir(t.TempDir()+"/absent"))
	assert.ErrorIs(t, err, flowsource.ErrRootNotFound)
}

func TestUploader_ReportsProgress(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeLangflow(t)
	ctx, observer := authedContext(t, fake)

	src := flowsource.NewFS("flows", fstest.MapFS{
		"a.json": {Data: testutil.FlowDocument("A")},
		"b.json": {Data: testutil.FlowDocument("B")},
	})
	_, err := NewUploader(ctx, "").Upload(ctx, superuserSession(t, ctx), src)
	require.NoError(t, err)

	progress := observer.Events(provisioning.EventProgress)
	require.Len(t, progress, 2)
	assert.Equal(t, "2", progress[1].Fields["current"])
	assert.Equal(t, "2", progress[1].Fields["total"])
	assert.True(t, strings.Contains(observer.Transcript(), "Uploaded a.json"))
}
