package provisioning

import (
	"fmt"
	"maps"
	"net"
	"slices"
	"strings"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/util/naming"
)

// Severities of a ValidationError.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range Preflight(ctx.Config) {
		LogValidation(ctx.Observer, ve)
		if ve.IsError() {
			errs = append(errs, ve.Error())
			continue
		}
		ctx.State.Warnings = append(ctx.State.Warnings, ve)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Preflight checks a loaded configuration for problems the cloud APIs
// would only report mid-deployment. Warnings never block a run.
func Preflight(cfg *config.ClusterConfig) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNetwork(cfg)...)
	errs = append(errs, validateNodePools(cfg)...)
	return errs
}

func validateNetwork(cfg *config.ClusterConfig) []ValidationError {
	var errs []ValidationError
	network := cfg.Network

	cidrs := map[string]string{config.KeyVPCCIDR: network.VPCCIDR}
	for i, c := range network.PrivateSubnetCIDRs {
		cidrs[fmt.Sprintf("%s[%d]", config.KeyPrivateSubnets, i)] = c
	}
	for i, c := range network.PublicSubnetCIDRs {
		cidrs[fmt.Sprintf("%s[%d]", config.KeyPublicSubnets, i)] = c
	}
	for _, field := range slices.Sorted(maps.Keys(cidrs)) {
		if _, _, err := net.ParseCIDR(cidrs[field]); err != nil {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("%q is not a valid CIDR, the cloud API will reject it", cidrs[field]),
				Severity: SeverityWarning,
			})
		}
	}

	switch cfg.Provider {
	case config.ProviderAWS:
		if len(network.PublicSubnetCIDRs) == 0 {
			errs = append(errs, ValidationError{
				Field:    config.KeyPublicSubnets,
				Message:  "at least one public subnet is required to host the NAT gateway",
				Severity: SeverityError,
			})
		}
	case config.ProviderGCP, config.ProviderAzure:
		if len(network.PublicSubnetCIDRs) > 0 {
			errs = append(errs, ValidationError{
				Field:    config.KeyPublicSubnets,
				Message:  fmt.Sprintf("public subnets are ignored on %s", cfg.Provider),
				Severity: SeverityWarning,
			})
		}
		if len(network.PrivateSubnetCIDRs) > 1 {
			errs = append(errs, ValidationError{
				Field:    config.KeyPrivateSubnets,
				Message:  fmt.Sprintf("only the first private subnet (%s) is used on %s", network.PrivateSubnetCIDRs[0], cfg.Provider),
				Severity: SeverityWarning,
			})
		}
	}

	if cfg.Provider == config.ProviderGCP && len(network.PrivateSubnetCIDRs) > 0 {
		primary := network.PrivateSubnetCIDRs[0]
		for _, secondary := range []string{config.GKEPodsRangeCIDR, config.GKEServicesRangeCIDR} {
			if cidrsOverlap(primary, secondary) {
				errs = append(errs, ValidationError{
					Field:    config.KeyPrivateSubnets + "[0]",
					Message:  fmt.Sprintf("%s overlaps the GKE secondary range %s", primary, secondary),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// cidrsOverlap reports whether two well-formed CIDRs share addresses.
// Unparsable input never overlaps; it is reported separately.
func cidrsOverlap(a, b string) bool {
	_, na, err := net.ParseCIDR(a)
	if err != nil {
		return false
	}
	_, nb, err := net.ParseCIDR(b)
	if err != nil {
		return false
	}
	return na.Contains(nb.IP) || nb.Contains(na.IP)
}

func validateNodePools(cfg *config.ClusterConfig) []ValidationError {
	var errs []ValidationError
	names := make(map[string]int, len(cfg.NodePools))
	azureNames := make(map[string]string, len(cfg.NodePools))

	for i, pool := range cfg.NodePools {
		field := fmt.Sprintf("%s[%d]", config.KeyNodePools, i)

		if prev, dup := names[pool.Name]; dup {
			errs = append(errs, ValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("pool name %q is already used by %s[%d]", pool.Name, config.KeyNodePools, prev),
				Severity: SeverityError,
			})
		}
		names[pool.Name] = i

		if pool.MinSize > pool.MaxSize {
			errs = append(errs, ValidationError{
				Field:    field,
				Message:  fmt.Sprintf("minSize %d is greater than maxSize %d", pool.MinSize, pool.MaxSize),
				Severity: SeverityError,
			})
		} else if pool.DesiredSize < pool.MinSize || pool.DesiredSize > pool.MaxSize {
			errs = append(errs, ValidationError{
				Field:    field + ".desiredSize",
				Message:  fmt.Sprintf("desiredSize %d is outside [%d, %d]", pool.DesiredSize, pool.MinSize, pool.MaxSize),
				Severity: SeverityWarning,
			})
		}

		if pool.MinSize < 1 {
			errs = append(errs, ValidationError{
				Field:    field + ".minSize",
				Message:  "minSize below 1 lets the pool scale to zero nodes",
				Severity: SeverityWarning,
			})
		}

		if cfg.Provider != config.ProviderAzure {
			continue
		}
		sanitized := naming.AzurePoolName(pool.Name)
		if sanitized == "" {
			errs = append(errs, ValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("pool name %q has no valid AKS characters", pool.Name),
				Severity: SeverityError,
			})
			continue
		}
		if other, clash := azureNames[sanitized]; clash && other != pool.Name {
			errs = append(errs, ValidationError{
				Field:    field + ".name",
				Message:  fmt.Sprintf("pool names %q and %q both become agent pool %q", other, pool.Name, sanitized),
				Severity: SeverityError,
			})
		}
		azureNames[sanitized] = pool.Name
	}

	return errs
}
