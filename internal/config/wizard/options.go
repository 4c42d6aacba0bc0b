package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/imamik/kubecloud/internal/config"
)

// Option is a selectable value with a human readable label.
type Option struct {
	Value       string
	Label       string
	Description string
}

// Providers lists the supported clouds.
var Providers = []Option{
	{Value: string(config.ProviderAWS), Label: "AWS", Description: "Amazon EKS"},
	{Value: string(config.ProviderGCP), Label: "GCP", Description: "Google Kubernetes Engine"},
	{Value: string(config.ProviderAzure), Label: "Azure", Description: "Azure Kubernetes Service"},
}

// Regions lists common regions per provider. The first entry is the default.
var Regions = map[config.Provider][]Option{
	config.ProviderAWS: {
		{Value: "us-east-1", Description: "N. Virginia"},
		{Value: "us-west-2", Description: "Oregon"},
		{Value: "eu-west-1", Description: "Ireland"},
		{Value: "eu-central-1", Description: "Frankfurt"},
		{Value: "ap-southeast-1", Description: "Singapore"},
	},
	config.ProviderGCP: {
		{Value: "us-central1", Description: "Iowa"},
		{Value: "europe-west1", Description: "Belgium"},
		{Value: "europe-west4", Description: "Netherlands"},
		{Value: "asia-east1", Description: "Taiwan"},
	},
	config.ProviderAzure: {
		{Value: "eastus", Description: "East US"},
		{Value: "westeurope", Description: "West Europe"},
		{Value: "northeurope", Description: "North Europe"},
		{Value: "southeastasia", Description: "Southeast Asia"},
	},
}

// KubernetesVersions lists the offered control plane versions.
var KubernetesVersions = []Option{
	{Value: "1.29", Description: "default"},
	{Value: "1.30"},
	{Value: "1.31"},
}

// SizeOptions describes every size tier with the machine type it maps to
// on provider.
func SizeOptions(provider config.Provider) []Option {
	out := make([]Option, 0, len(config.InstanceSizes))
	for _, size := range config.InstanceSizes {
		out = append(out, Option{
			Value:       string(size),
			Label:       string(size),
			Description: config.MachineType(provider, size),
		})
	}
	return out
}

// RegionsFor returns the regions offered for provider.
func RegionsFor(provider config.Provider) []Option {
	return Regions[provider]
}

// ToHuhOptions converts options for a huh select.
func ToHuhOptions(opts []Option) []huh.Option[string] {
	out := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		if o.Description != "" {
			label = fmt.Sprintf("%s (%s)", label, o.Description)
		}
		out[i] = huh.NewOption(label, o.Value)
	}
	return out
}
