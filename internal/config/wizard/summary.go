package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/kubecloud/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f9fafb"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3b82f6")).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))
)

// Summary renders the validated configuration for the terminal. Styling is
// only applied when styled is true.
func Summary(cfg *config.ClusterConfig, path string, styled bool) string {
	title, section, dim := fmt.Sprint, fmt.Sprint, fmt.Sprint
	if styled {
		title = func(a ...any) string { return titleStyle.Render(fmt.Sprint(a...)) }
		section = func(a ...any) string { return sectionStyle.Render(fmt.Sprint(a...)) }
		dim = func(a ...any) string { return dimStyle.Render(fmt.Sprint(a...)) }
	}

	var sb strings.Builder
	fmt.Fprintln(&sb, title("Settings saved to ", path))
	fmt.Fprintln(&sb, section("Cluster"))
	fmt.Fprintf(&sb, "  Name:       %s\n", cfg.ClusterName)
	fmt.Fprintf(&sb, "  Provider:   %s\n", cfg.Provider)
	fmt.Fprintf(&sb, "  Region:     %s\n", cfg.Region)
	fmt.Fprintf(&sb, "  Kubernetes: %s\n", cfg.KubernetesVersion)
	fmt.Fprintf(&sb, "  Network:    %s\n", cfg.Network.VPCCIDR)

	fmt.Fprintln(&sb, section("Node Pools"))
	for _, p := range cfg.NodePools {
		fmt.Fprintf(&sb, "  %s: %d-%d x %s %s\n", p.Name, p.MinSize, p.MaxSize,
			config.MachineType(cfg.Provider, p.InstanceSize), dim(fmt.Sprintf("(desired %d)", p.DesiredSize)))
	}

	fmt.Fprintln(&sb, section("Next Steps"))
	fmt.Fprintf(&sb, "  kubecloud preview --config %s\n", path)
	fmt.Fprintf(&sb, "  kubecloud up --config %s\n", path)
	return sb.String()
}
