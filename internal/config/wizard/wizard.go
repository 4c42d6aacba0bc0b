package wizard

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/kubecloud/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Identity
	Provider    string
	ProjectName string
	Environment string

	// Location
	Region            string
	KubernetesVersion string

	// AWS
	AWSPrivateCluster bool
	AWSEnableEBSCSI   bool

	// GCP
	GCPProject      string
	GCPZonalCluster bool

	// Azure
	AzureResourceGroup string
	AzureEnableAD      bool

	// Default node pool
	InstanceSize string
	MinSize      string
	MaxSize      string
	DesiredSize  string
}

// newResult returns a result preset with the configuration defaults.
func newResult() *WizardResult {
	return &WizardResult{
		Provider:          string(config.ProviderAWS),
		ProjectName:       config.DefaultProjectName,
		KubernetesVersion: config.DefaultKubernetesVersion,
		AWSEnableEBSCSI:   true,
		GCPZonalCluster:   true,
		InstanceSize:      string(config.SizeMedium),
		MinSize:           "1",
		MaxSize:           "5",
		DesiredSize:       "2",
	}
}

// Interactive reports whether stdin and stdout are attached to a terminal.
func Interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*WizardResult, error) {
	if !Interactive() {
		return nil, errNotInteractive
	}

	result := newResult()

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runLocationGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}

	if err := runProviderGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("%s options: %w", result.Provider, err)
	}

	if err := runNodePoolGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("node pool: %w", err)
	}

	return result, nil
}
