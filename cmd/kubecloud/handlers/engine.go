package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optpreview"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/tokens"
	"github.com/pulumi/pulumi/sdk/v3/go/common/workspace"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/platform/s3"
)

// Engine runs operations against one stack.
type Engine interface {
	Preview(ctx context.Context) (map[string]int, error)
	Up(ctx context.Context) (auto.OutputMap, error)
	Destroy(ctx context.Context) error
	Outputs(ctx context.Context) (auto.OutputMap, error)
}

// engineParams selects the stack and the program it runs.
type engineParams struct {
	stack   string
	backend string
	values  map[string]string
	program pulumi.RunFunc
}

// Factory function variables - can be replaced in tests.
var (
	newEngine         = defaultEngine
	ensureStateBucket = defaultEnsureStateBucket
)

// stackEngine drives an inline-source stack through the Automation API.
type stackEngine struct {
	stack auto.Stack
	out   io.Writer
}

func defaultEngine(ctx context.Context, p engineParams) (Engine, error) {
	project := workspace.Project{
		Name:    tokens.PackageName(projectName),
		Runtime: workspace.NewProjectRuntimeInfo("go", nil),
	}
	if p.backend != "" {
		project.Backend = &workspace.ProjectBackend{URL: p.backend}
	}

	stack, err := auto.UpsertStackInlineSource(ctx, p.stack, projectName, p.program, auto.Project(project))
	if err != nil {
		return nil, fmt.Errorf("failed to select stack %s: %w", p.stack, err)
	}

	values := auto.ConfigMap{}
	for k, v := range p.values {
		values[k] = auto.ConfigValue{Value: v}
	}
	if err := stack.SetAllConfig(ctx, values); err != nil {
		return nil, fmt.Errorf("failed to set stack configuration: %w", err)
	}

	return &stackEngine{stack: stack, out: os.Stdout}, nil
}

func (e *stackEngine) Preview(ctx context.Context) (map[string]int, error) {
	res, err := e.stack.Preview(ctx, optpreview.ProgressStreams(e.out))
	if err != nil {
		return nil, err
	}
	summary := make(map[string]int, len(res.ChangeSummary))
	for op, n := range res.ChangeSummary {
		summary[string(op)] = n
	}
	return summary, nil
}

func (e *stackEngine) Up(ctx context.Context) (auto.OutputMap, error) {
	res, err := e.stack.Up(ctx, optup.ProgressStreams(e.out))
	if err != nil {
		return nil, err
	}
	return res.Outputs, nil
}

func (e *stackEngine) Destroy(ctx context.Context) error {
	_, err := e.stack.Destroy(ctx, optdestroy.ProgressStreams(e.out))
	return err
}

func (e *stackEngine) Outputs(ctx context.Context) (auto.OutputMap, error) {
	return e.stack.Outputs(ctx)
}

// defaultEnsureStateBucket creates the state bucket of an s3:// backend.
// Other backends are left alone.
func defaultEnsureStateBucket(ctx context.Context, backend string, log logr.Logger) error {
	bucket, ok := s3.BucketFromBackend(backend)
	if !ok {
		return nil
	}
	client, err := s3.NewClient(ctx, s3.Options{Endpoint: os.Getenv("KUBECLOUD_S3_ENDPOINT")})
	if err != nil {
		return err
	}
	created, err := client.EnsureBucket(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to prepare state bucket: %w", err)
	}
	if created {
		log.Info("Created state bucket", "bucket", bucket)
	}
	return nil
}
