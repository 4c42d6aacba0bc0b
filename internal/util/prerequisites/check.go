// Package prerequisites checks the client tools a stack operation shells out to.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/imamik/kubecloud/internal/config"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// Seams for tests.
var (
	lookPath    = exec.LookPath
	toolVersion = getToolVersion
)

var pulumiCLI = Tool{
	Name:        "pulumi",
	Required:    true,
	Description: "Runs the deployment engine behind preview, up and destroy",
	InstallURL:  "https://www.pulumi.com/docs/install/",
}

// ToolsFor returns the tools a cluster on cfg's provider needs. The
// kubeconfig exports authenticate through provider plugins, so those are
// optional: provisioning works without them, only cluster access does not.
func ToolsFor(cfg *config.ClusterConfig) []Tool {
	tools := []Tool{pulumiCLI}

	switch cfg.Provider {
	case config.ProviderAWS:
		tools = append(tools, Tool{
			Name:        "aws",
			Description: "Issues EKS tokens for the exported kubeconfig",
			InstallURL:  "https://docs.aws.amazon.com/cli/latest/userguide/getting-started-install.html",
		})
	case config.ProviderGCP:
		tools = append(tools, Tool{
			Name:        "gke-gcloud-auth-plugin",
			Description: "Issues GKE tokens for the exported kubeconfig",
			InstallURL:  "https://cloud.google.com/kubernetes-engine/docs/how-to/cluster-access-for-kubectl",
		})
	case config.ProviderAzure:
		if cfg.Azure != nil && cfg.Azure.EnableAzureAD {
			tools = append(tools, Tool{
				Name:        "kubelogin",
				Description: "Converts Entra ID credentials in the exported kubeconfig",
				InstallURL:  "https://azure.github.io/kubelogin/install.html",
			})
		}
	}
	return tools
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Optional returns the missing tools that are not required.
func (r *CheckResults) Optional() []Tool {
	var out []Tool
	for _, tool := range r.Missing {
		if !tool.Required {
			out = append(out, tool)
		}
	}
	return out
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(path)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckFor checks the tools cfg's provider needs.
func CheckFor(cfg *config.ClusterConfig) *CheckResults {
	return Check(ToolsFor(cfg))
}

// getToolVersion returns the first line of "<tool> version", or "" when the
// tool does not answer.
func getToolVersion(path string) string {
	for _, flag := range []string{"version", "--version"} {
		// #nosec G204 - path comes from LookPath on a fixed tool name
		output, err := exec.Command(path, flag).Output()
		if err != nil {
			continue
		}
		line, _, _ := strings.Cut(string(output), "\n")
		return strings.TrimSpace(line)
	}
	return ""
}
