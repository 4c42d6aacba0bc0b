package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kubecloud/internal/kubeconfig"
)

// Outputs prints the stack outputs. When kubeconfigPath is set the
// kubeconfig is also written there with owner-only permissions.
func Outputs(ctx context.Context, opts Options, kubeconfigPath string, showSecrets bool) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	outputs, err := s.engine.Outputs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs: %w", err)
	}
	if len(outputs) == 0 {
		return fmt.Errorf("stack has no outputs; run 'kubecloud up' first")
	}

	fmt.Print(formatOutputs(outputs, showSecrets))

	if kubeconfigPath == "" {
		return nil
	}
	doc, err := kubeconfigFrom(outputs)
	if err != nil {
		return err
	}
	if err := kubeconfig.Validate(doc); err != nil {
		return fmt.Errorf("stack kubeconfig is unusable: %w", err)
	}
	if err := kubeconfig.WriteFile(kubeconfigPath, doc); err != nil {
		return err
	}
	fmt.Printf("\nKubeconfig written to %s\n", kubeconfigPath)
	return nil
}
