package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/langflow-bootstrap/internal/flowsource"
	"github.com/imamik/langflow-bootstrap/internal/platform/s3"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// ErrUploadsFailed is returned in strict mode when any upload did not succeed.
var ErrUploadsFailed = errors.New("flow uploads failed")

// SourceFactory opens the flow source for root.
type SourceFactory func(ctx context.Context, root string, opts s3.Options) (flowsource.Source, error)

// FlowUploader is the phase uploading a flow root as a principal.
type FlowUploader struct {
	Root        string
	As          provisioning.Principal
	Description string

	// NewSource defaults to flowsource.New.
	NewSource SourceFactory
}

// NewFlowUploader creates an upload phase for root.
func NewFlowUploader(root string, as provisioning.Principal, description string) *FlowUploader {
	return &FlowUploader{
		Root:        root,
		As:          as,
		Description: description,
		NewSource:   flowsource.New,
	}
}

// Name implements the provisioning.Phase interface.
func (p *FlowUploader) Name() string {
	return "upload-flows"
}

// Reaches implements provisioning.StageReacher.
func (p *FlowUploader) Reaches() provisioning.Stage {
	return provisioning.StageContentUploaded
}

// Provision implements the provisioning.Phase interface.
// A missing root is a warning unless uploads are strict.
func (p *FlowUploader) Provision(ctx *provisioning.Context) error {
	sess, err := ctx.State.SessionFor(p.As)
	if err != nil {
		return err
	}

	newSource := p.NewSource
	if newSource == nil {
		newSource = flowsource.New
	}
	src, err := newSource(ctx, p.Root, s3.Options{
		Endpoint: ctx.Config.S3.Endpoint,
		Region:   ctx.Config.S3.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to open flow root %s: %w", p.Root, err)
	}

	ctx.Observer.Printf("[%s] Uploading flows from %s as %s (%s)", phase, src.Root(), p.As, sess.Kind())
	result, err := NewUploader(ctx, p.Description).Upload(ctx, sess, src)
	if errors.Is(err, flowsource.ErrRootNotFound) {
		ctx.State.Uploads = &provisioning.UploadResult{Root: src.Root(), Missing: true}
		if ctx.Options.StrictUploads {
			return err
		}
		ctx.Observer.Printf("[%s] WARNING: flow root %s not found, nothing uploaded", phase, src.Root())
		return nil
	}
	ctx.State.Uploads = result
	if err != nil {
		return err
	}

	failed := result.Failed()
	ctx.Observer.Printf("[%s] Uploaded %d of %d flows (%d failed)",
		phase, result.Count(provisioning.OutcomeUploaded), len(result.Outcomes), len(failed))
	for _, o := range failed {
		ctx.Observer.Printf("[%s]   %s %s: %v", phase, o.Status, o.Path, o.Err)
	}

	if ctx.Options.StrictUploads && len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUploadsFailed, len(failed), len(result.Outcomes))
	}
	return nil
}
