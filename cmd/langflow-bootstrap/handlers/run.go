// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/client-go/kubernetes"

	"github.com/imamik/langflow-bootstrap/internal/bootstrap"
	"github.com/imamik/langflow-bootstrap/internal/config"
	"github.com/imamik/langflow-bootstrap/internal/envfile"
	"github.com/imamik/langflow-bootstrap/internal/platform/k8s"
	"github.com/imamik/langflow-bootstrap/internal/platform/langflow"
	"github.com/imamik/langflow-bootstrap/internal/provisioning"
)

// RunOptions carries the persistent CLI flags.
type RunOptions struct {
	ConfigPath    string
	LogJSON       bool
	LogDebug      bool
	MetricsFile   string
	ReportFile    string
	StrictUploads bool
	Kubeconfig    string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads and validates the run configuration.
	loadConfig = config.Load

	// newLogger builds the run logger.
	newLogger = func(opts RunOptions, out io.Writer) logr.Logger {
		return NewLogger(out, opts.LogJSON, opts.LogDebug)
	}

	// newKubeClient creates the clientset for the Secret mirror.
	newKubeClient = func(kubeconfig string) (kubernetes.Interface, error) {
		return k8s.NewClientset(kubeconfig)
	}

	// newRunID identifies a run in logs and reports.
	newRunID = uuid.NewString

	// stdout receives logs, benchmark data and the summary.
	stdout io.Writer = os.Stdout

	// isInteractive reports whether the styled summary should be printed.
	isInteractive = isInteractiveTTY
)

// Run executes the bootstrap variant v.
//
// The configuration is loaded and validated before any network call. The
// metrics and report files are written whether or not the run succeeds.
func Run(ctx context.Context, v bootstrap.Variant, opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	runID := newRunID()
	logger := newLogger(opts, stdout).WithValues("run", runID, "variant", string(v))

	sink, err := buildSink(v, cfg, opts)
	if err != nil {
		return err
	}

	client := langflow.NewClient(cfg.URL, langflow.WithUserAgent("langflow-bootstrap/"+buildVersion))
	pctx := provisioning.NewContext(ctx, cfg, client, sink, provisioning.NewLogObserver(logger))
	pctx.Options.StrictUploads = opts.StrictUploads
	pctx.Stdout = stdout

	started := time.Now()
	runErr := bootstrap.Run(pctx, v)
	if runErr != nil {
		logger.Error(runErr, "bootstrap failed", "stage", string(pctx.State.Stage()))
	}

	report := bootstrap.NewReport(pctx, runID, v, started, runErr)
	outErr := writeOutputs(pctx, report, opts)
	if outErr != nil {
		logger.Error(outErr, "failed to write run outputs")
	}

	if isInteractive() {
		fmt.Fprint(stdout, renderSummary(report))
	}

	if runErr != nil {
		return errors.Join(fmt.Errorf("%s bootstrap failed: %w", v, runErr), outErr)
	}
	return outErr
}

// buildSink returns the env file sink, teed into the Secret mirror when one
// is configured. The benchmark variant persists nothing.
func buildSink(v bootstrap.Variant, cfg *config.Config, opts RunOptions) (envfile.Sink, error) {
	file := envfile.NewFileSink(cfg.EnvFile)
	if v == bootstrap.Benchmark || !cfg.Secret.Enabled() {
		return file, nil
	}

	client, err := newKubeClient(opts.Kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client for secret mirror: %w", err)
	}
	return envfile.Tee(file, k8s.NewSecretSink(client, cfg.Secret.Namespace, cfg.Secret.Name)), nil
}

func writeOutputs(ctx *provisioning.Context, report *bootstrap.Report, opts RunOptions) error {
	var errs []error
	if opts.MetricsFile != "" {
		if err := ctx.Metrics.WriteTextfile(opts.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		}
	}
	if opts.ReportFile != "" {
		if err := report.WriteFile(opts.ReportFile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
