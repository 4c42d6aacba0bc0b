package wizard

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/kubecloud/internal/config"
)

// nameRegex validates project and environment names: 1-32 lowercase alphanumeric with hyphens.
var nameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runIdentityGroup prompts for the provider, project and environment.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cloud Provider").
				Options(ToHuhOptions(Providers)...).
				Value(&result.Provider),
			huh.NewInput().
				Title("Project Name").
				Description("Prefix of every resource name").
				Placeholder(config.DefaultProjectName).
				Value(&result.ProjectName).
				Validate(validateName),
			huh.NewInput().
				Title("Environment").
				Description("e.g. dev, staging, prod").
				Placeholder("dev").
				Value(&result.Environment).
				Validate(validateName),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runLocationGroup prompts for region and Kubernetes version.
func runLocationGroup(ctx context.Context, result *WizardResult) error {
	provider := config.Provider(result.Provider)
	if regions := RegionsFor(provider); len(regions) > 0 {
		result.Region = regions[0].Value
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Options(ToHuhOptions(RegionsFor(provider))...).
				Value(&result.Region),
			huh.NewSelect[string]().
				Title("Kubernetes Version").
				Options(ToHuhOptions(KubernetesVersions)...).
				Value(&result.KubernetesVersion),
		).Title("Location"),
	).RunWithContext(ctx)
}

// runProviderGroup prompts for the options of the selected provider.
func runProviderGroup(ctx context.Context, result *WizardResult) error {
	var group *huh.Group

	switch config.Provider(result.Provider) {
	case config.ProviderAWS:
		group = huh.NewGroup(
			huh.NewConfirm().
				Title("Private API endpoint").
				Description("Expose the EKS API inside the VPC as well").
				Value(&result.AWSPrivateCluster),
			huh.NewConfirm().
				Title("EBS CSI driver").
				Description("Install the aws-ebs-csi-driver addon").
				Value(&result.AWSEnableEBSCSI),
		).Title("AWS")
	case config.ProviderGCP:
		group = huh.NewGroup(
			huh.NewInput().
				Title("GCP Project ID").
				Value(&result.GCPProject).
				Validate(validateRequired),
			huh.NewConfirm().
				Title("Zonal cluster").
				Description("Single zone control plane (cheaper); regional otherwise").
				Value(&result.GCPZonalCluster),
		).Title("GCP")
	case config.ProviderAzure:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Resource Group").
				Value(&result.AzureResourceGroup).
				Validate(validateRequired),
			huh.NewConfirm().
				Title("Azure AD integration").
				Value(&result.AzureEnableAD),
		).Title("Azure")
	default:
		return nil
	}

	return huh.NewForm(group).RunWithContext(ctx)
}

// runNodePoolGroup prompts for the size of the default node pool.
func runNodePoolGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance Size").
				Options(ToHuhOptions(SizeOptions(config.Provider(result.Provider)))...).
				Value(&result.InstanceSize),
			huh.NewInput().
				Title("Minimum Nodes").
				Value(&result.MinSize).
				Validate(validateCount),
			huh.NewInput().
				Title("Maximum Nodes").
				Value(&result.MaxSize).
				Validate(validateCount),
			huh.NewInput().
				Title("Desired Nodes").
				Value(&result.DesiredSize).
				Validate(validateCount),
		).Title("Default Node Pool"),
	).RunWithContext(ctx)
}

// validateName validates project and environment names.
func validateName(s string) error {
	if s == "" {
		return errNameRequired
	}
	if !nameRegex.MatchString(s) {
		return errNameInvalid
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errCountInvalid
	}
	return nil
}
