package provisioning

import "github.com/pulumi/pulumi/sdk/v3/go/pulumi"

// Export keys of the stack outputs.
const (
	OutputClusterName   = "clusterName"
	OutputKubeconfig    = "kubeconfig"
	OutputEndpoint      = "clusterEndpoint"
	OutputClusterID     = "clusterId"
	OutputCloudProvider = "cloudProvider"
	OutputEnvironment   = "environment"
)

// ClusterOutput is the provider-independent result of a build. Every field
// resolves only once the engine has created the underlying resources.
type ClusterOutput struct {
	ClusterName pulumi.StringOutput
	// Kubeconfig is a YAML client configuration. It is sensitive.
	Kubeconfig pulumi.StringOutput
	// Endpoint is the HTTPS URL of the API server.
	Endpoint  pulumi.StringOutput
	ClusterID pulumi.StringOutput
}

// Export registers the outputs on the stack. The kubeconfig is always
// exported as a secret.
func (o *ClusterOutput) Export(ctx *Context) {
	ctx.Pulumi.Export(OutputClusterName, o.ClusterName)
	ctx.Pulumi.Export(OutputKubeconfig, pulumi.ToSecret(o.Kubeconfig))
	ctx.Pulumi.Export(OutputEndpoint, o.Endpoint)
	ctx.Pulumi.Export(OutputClusterID, o.ClusterID)
	ctx.Pulumi.Export(OutputCloudProvider, pulumi.String(ctx.Config.Provider.String()))
	ctx.Pulumi.Export(OutputEnvironment, pulumi.String(ctx.Config.Environment()))
}
