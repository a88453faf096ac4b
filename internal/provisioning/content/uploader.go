package content

import (
	"context"
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/flowsource"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

const phase = "content"

// Uploader uploads every flow document of a source.
type Uploader struct {
	Client   *langflow.Client
	Observer provisioning.Observer
	Metrics  *provisioning.Metrics

	// ProjectDescription is given to projects created for sub-directories.
	ProjectDescription string
}

// NewUploader creates an uploader reporting through the context's observer and metrics.
func NewUploader(ctx *provisioning.Context, description string) *Uploader {
	return &Uploader{
		Client:             ctx.Client,
		Observer:           ctx.Observer,
		Metrics:            ctx.Metrics,
		ProjectDescription: description,
	}
}

// Upload scans src and uploads its documents as sess. Global files go first,
// then each project in turn. The returned error is non-nil only when the
// source cannot be scanned or ctx is cancelled; per-item failures are
// reported as outcomes.
func (u *Uploader) Upload(ctx context.Context, sess langflow.Session, src flowsource.Source) (*provisioning.UploadResult, error) {
	result := &provisioning.UploadResult{Root: src.Root()}

	tree, err := src.Scan(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to scan %s: %w", src.Root(), err)
	}

	total := tree.Count()
	u.Observer.Printf("[%s] Found %d flows in %s (%d projects)", phase, total, src.Root(), len(tree.Projects))

	record := func(o provisioning.UploadOutcome) {
		result.Outcomes = append(result.Outcomes, o)
		u.Metrics.RecordUpload(o.Status)
		u.Observer.Progress(phase, len(result.Outcomes), total)
	}

	for _, f := range tree.Global {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record(u.uploadOne(ctx, sess, src, f, ""))
	}

	catalog := u.Client.ProjectCatalog(sess)
	for _, dir := range tree.Projects {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := u.Client.EnsureProject(ctx, sess, catalog, langflow.ProjectSpec{
			Name:        dir.Name,
			Description: u.ProjectDescription,
		})
		u.Metrics.RecordReconcile("project", res.Created, err)
		if err != nil {
			provisioning.LogResourceFailed(u.Observer, phase, "project", dir.Name, err)
			u.skipProject(dir, err, record)
			continue
		}

		project := res.Resource
		if res.Created {
			provisioning.LogResourceCreated(u.Observer, phase, "project", project.Name, project.ID)
		} else {
			provisioning.LogResourceExists(u.Observer, phase, "project", project.Name, project.ID)
		}

		for _, f := range dir.Files {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			record(u.uploadOne(ctx, sess, src, f, project.ID))
		}
	}

	return result, nil
}

// skipProject records the files of a project that could not be ensured.
// A project without files is recorded as one failed outcome.
func (u *Uploader) skipProject(dir flowsource.ProjectDir, cause error, record func(provisioning.UploadOutcome)) {
	if len(dir.Files) == 0 {
		record(provisioning.UploadOutcome{
			Path:    dir.Name + "/",
			Project: dir.Name,
			Status:  provisioning.OutcomeFailed,
			Err:     cause,
		})
		return
	}
	for _, f := range dir.Files {
		provisioning.LogResourceSkipped(u.Observer, phase, "flow", f.Path, "project unavailable")
		record(provisioning.UploadOutcome{
			Path:    f.Path,
			Project: dir.Name,
			Status:  provisioning.OutcomeSkipped,
			Err:     fmt.Errorf("project '%s' unavailable: %w", dir.Name, cause),
		})
	}
}

func (u *Uploader) uploadOne(ctx context.Context, sess langflow.Session, src flowsource.Source, f flowsource.FlowFile, projectID string) provisioning.UploadOutcome {
	out := provisioning.UploadOutcome{
		Path:      f.Path,
		Project:   f.Project,
		ProjectID: projectID,
		Status:    provisioning.OutcomeFailed,
	}

	rc, err := src.Open(ctx, f)
	if err != nil {
		out.Err = err
		provisioning.LogResourceFailed(u.Observer, phase, "flow", f.Path, err)
		return out
	}
	defer func() { _ = rc.Close() }()

	resp, err := u.Client.UploadFlow(ctx, sess, f.Name, rc, projectID)
	if resp != nil {
		out.StatusCode = resp.StatusCode
		out.Body = string(resp.Body)
	}
	if err != nil {
		out.Err = err
		provisioning.LogResourceFailed(u.Observer, phase, "flow", f.Path, err)
		return out
	}

	out.Status = provisioning.OutcomeUploaded
	if f.Project == "" {
		u.Observer.Printf("[%s] Uploaded %s", phase, f.Path)
	} else {
		u.Observer.Printf("[%s] Uploaded %s to project '%s'", phase, f.Path, f.Project)
	}
	return out
}
