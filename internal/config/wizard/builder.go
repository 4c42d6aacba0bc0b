package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/kubecloud/internal/config"
)

// Document is the settings file written by the wizard. Field names are the
// configuration keys.
type Document struct {
	CloudProvider     string                  `yaml:"cloudProvider"`
	ProjectName       string                  `yaml:"projectName,omitempty"`
	Environment       string                  `yaml:"environment"`
	Region            string                  `yaml:"region"`
	KubernetesVersion string                  `yaml:"kubernetesVersion,omitempty"`
	NodePools         []config.NodePoolConfig `yaml:"nodePools,omitempty"`

	AWSPrivateCluster *bool `yaml:"awsPrivateCluster,omitempty"`
	AWSEnableEBSCSI   *bool `yaml:"awsEnableEbsCsi,omitempty"`

	GCPProject      string `yaml:"gcp:project,omitempty"`
	GCPZonalCluster *bool  `yaml:"gcpZonalCluster,omitempty"`

	AzureResourceGroup string `yaml:"azureResourceGroup,omitempty"`
	AzureEnableAD      *bool  `yaml:"azureEnableAd,omitempty"`
}

// BuildDocument creates a Document from the wizard result. Only the block
// of the selected provider is filled in.
func BuildDocument(result *WizardResult) (*Document, error) {
	pool, err := buildPool(result)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		CloudProvider:     result.Provider,
		ProjectName:       result.ProjectName,
		Environment:       result.Environment,
		Region:            result.Region,
		KubernetesVersion: result.KubernetesVersion,
		NodePools:         []config.NodePoolConfig{pool},
	}

	switch config.Provider(result.Provider) {
	case config.ProviderAWS:
		doc.AWSPrivateCluster = boolPtr(result.AWSPrivateCluster)
		doc.AWSEnableEBSCSI = boolPtr(result.AWSEnableEBSCSI)
	case config.ProviderGCP:
		doc.GCPProject = result.GCPProject
		doc.GCPZonalCluster = boolPtr(result.GCPZonalCluster)
	case config.ProviderAzure:
		doc.AzureResourceGroup = result.AzureResourceGroup
		doc.AzureEnableAD = boolPtr(result.AzureEnableAD)
	}

	return doc, nil
}

func buildPool(result *WizardResult) (config.NodePoolConfig, error) {
	pool := config.DefaultNodePools()[0]

	var size config.InstanceSize
	if err := size.UnmarshalText([]byte(result.InstanceSize)); err != nil {
		return pool, err
	}
	pool.InstanceSize = size

	for _, f := range []struct {
		name string
		raw  string
		dst  *int
	}{
		{"minimum nodes", result.MinSize, &pool.MinSize},
		{"maximum nodes", result.MaxSize, &pool.MaxSize},
		{"desired nodes", result.DesiredSize, &pool.DesiredSize},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return pool, fmt.Errorf("%s: %w", f.name, errCountInvalid)
		}
		*f.dst = n
	}
	return pool, nil
}

// Source flattens the document into configuration key/values.
func (d *Document) Source() (config.MapSource, error) {
	src := config.MapSource{}
	set := func(key, v string) {
		if v != "" {
			src[key] = v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			src[key] = strconv.FormatBool(*v)
		}
	}

	set(config.KeyCloudProvider, d.CloudProvider)
	set(config.KeyProjectName, d.ProjectName)
	set(config.KeyEnvironment, d.Environment)
	set(config.KeyRegion, d.Region)
	set(config.KeyKubernetesVersion, d.KubernetesVersion)
	if len(d.NodePools) > 0 {
		b, err := json.Marshal(d.NodePools)
		if err != nil {
			return nil, fmt.Errorf("failed to encode node pools: %w", err)
		}
		src[config.KeyNodePools] = string(b)
	}
	setBool(config.KeyAWSPrivateCluster, d.AWSPrivateCluster)
	setBool(config.KeyAWSEnableEBSCSI, d.AWSEnableEBSCSI)
	set(config.KeyGCPProject, d.GCPProject)
	setBool(config.KeyGCPZonalCluster, d.GCPZonalCluster)
	set(config.KeyAzureResourceGroup, d.AzureResourceGroup)
	setBool(config.KeyAzureEnableAD, d.AzureEnableAD)

	return src, nil
}

// Validate runs the document through the configuration loader.
func (d *Document) Validate() (*config.ClusterConfig, error) {
	src, err := d.Source()
	if err != nil {
		return nil, err
	}
	return config.Load(src)
}

func boolPtr(b bool) *bool {
	return &b
}
