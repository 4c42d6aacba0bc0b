package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/pulumi/pulumi/sdk/v3/go/auto"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/orchestration"
	"github.com/imamik/kubecloud/internal/provisioning"
)

// session is a prepared stack: validated configuration, logger, metrics
// and the engine bound to the stack.
type session struct {
	opts    Options
	cfg     *config.ClusterConfig
	log     logr.Logger
	metrics *provisioning.Recorder
	engine  Engine
}

func openSession(ctx context.Context, opts Options) (*session, error) {
	s, cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return nil, err
	}

	if err := checkPrerequisites(cfg, log); err != nil {
		return nil, err
	}

	if opts.Backend != "" {
		if err := ensureStateBucket(ctx, opts.Backend, log); err != nil {
			return nil, err
		}
	}

	metrics := provisioning.NewRecorder()
	program := orchestration.NewReconciler(
		orchestration.WithObserver(provisioning.NewLogObserver(log)),
		orchestration.WithMetrics(metrics),
	).Program()

	stack := stackName(opts, s)
	engine, err := newEngine(ctx, engineParams{
		stack:   stack,
		backend: opts.Backend,
		values:  s.Values(),
		program: program,
	})
	if err != nil {
		return nil, err
	}

	log.V(1).Info("Stack ready", "stack", stack, "cluster", cfg.ClusterName, "provider", cfg.Provider.String())
	return &session{opts: opts, cfg: cfg, log: log, metrics: metrics, engine: engine}, nil
}

// finish records the operation and writes the metrics file when requested.
func (s *session) finish(operation string, start time.Time, err error) error {
	s.metrics.ObserveOperation(operation, start, err)
	if s.opts.MetricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.opts.MetricsFile); werr != nil {
			s.log.Error(werr, "Failed to write metrics")
		}
	}
	return err
}

// Preview shows the changes an up would make.
func Preview(ctx context.Context, opts Options) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := s.engine.Preview(ctx)
	if err != nil {
		return s.finish("preview", start, fmt.Errorf("preview failed: %w", err))
	}

	fmt.Printf("\nPreview of %s:\n%s", s.cfg.ClusterName, formatChangeSummary(summary))
	return s.finish("preview", start, nil)
}

// Up creates or updates the cluster and prints the stack outputs.
func Up(ctx context.Context, opts Options) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	s.log.Info("Provisioning cluster", "cluster", s.cfg.ClusterName, "provider", s.cfg.Provider.String(), "region", s.cfg.Region)

	start := time.Now()
	outputs, err := s.engine.Up(ctx)
	if err != nil {
		return s.finish("up", start, fmt.Errorf("up failed: %w", err))
	}

	fmt.Printf("\nCluster %s is ready.\n%s", s.cfg.ClusterName, formatOutputs(outputs, false))
	return s.finish("up", start, nil)
}

// Destroy removes every resource of the stack.
func Destroy(ctx context.Context, opts Options) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	s.log.Info("Destroying cluster", "cluster", s.cfg.ClusterName)

	start := time.Now()
	if err := s.engine.Destroy(ctx); err != nil {
		return s.finish("destroy", start, fmt.Errorf("destroy failed: %w", err))
	}

	s.log.Info("Cluster destroyed", "cluster", s.cfg.ClusterName)
	return s.finish("destroy", start, nil)
}

// formatChangeSummary renders the per-operation resource counts.
func formatChangeSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "  no changes\n"
	}
	ops := make([]string, 0, len(summary))
	for op := range summary {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var sb strings.Builder
	for _, op := range ops {
		fmt.Fprintf(&sb, "  %-8s %d\n", op+":", summary[op])
	}
	return sb.String()
}

// formatOutputs renders the stack outputs. Secret values are masked unless
// showSecrets is set.
func formatOutputs(outputs auto.OutputMap, showSecrets bool) string {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		out := outputs[k]
		value := fmt.Sprint(out.Value)
		if out.Secret && !showSecrets {
			value = "[secret]"
		}
		if strings.Contains(value, "\n") {
			fmt.Fprintf(&sb, "  %s:\n    %s\n", k, strings.ReplaceAll(strings.TrimRight(value, "\n"), "\n", "\n    "))
			continue
		}
		fmt.Fprintf(&sb, "  %s: %s\n", k, value)
	}
	return sb.String()
}

// kubeconfigFrom extracts the kubeconfig document from the outputs.
func kubeconfigFrom(outputs auto.OutputMap) (string, error) {
	out, ok := outputs[provisioning.OutputKubeconfig]
	if !ok {
		return "", fmt.Errorf("stack has no %s output; run 'kubecloud up' first", provisioning.OutputKubeconfig)
	}
	doc, ok := out.Value.(string)
	if !ok || strings.TrimSpace(doc) == "" {
		return "", fmt.Errorf("stack output %s is empty", provisioning.OutputKubeconfig)
	}
	return doc, nil
}
