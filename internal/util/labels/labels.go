package labels

import (
	"regexp"
	"strings"
)

// Standard tag keys present on every resource.
const (
	// KeyProject carries the project name
	KeyProject = "Project"

	// KeyEnvironment carries the deployment environment (dev, staging, prod)
	KeyEnvironment = "Environment"

	// KeyManagedBy identifies the tool that owns the resource
	KeyManagedBy = "ManagedBy"

	// KeyName is the AWS console display name
	KeyName = "Name"
)

// AWS load balancer subnet discovery keys.
const (
	KeyELBRole         = "kubernetes.io/role/elb"
	KeyInternalELBRole = "kubernetes.io/role/internal-elb"

	// ClusterShared marks a subnet as usable by, but not owned by, a cluster.
	ClusterShared = "shared"
)

// ClusterKey returns the AWS cluster discovery tag key for a cluster.
func ClusterKey(clusterName string) string {
	return "kubernetes.io/cluster/" + clusterName
}

// TagBuilder builds a tag set from a fixed base mapping. Every later write
// wins over earlier ones, so overrides applied with Merge or With replace
// base values on key collision.
type TagBuilder struct {
	tags map[string]string
}

// NewTagBuilder creates a builder seeded with the Project, Environment and
// ManagedBy base tags.
func NewTagBuilder(project, environment, managedBy string) *TagBuilder {
	return &TagBuilder{
		tags: map[string]string{
			KeyProject:     project,
			KeyEnvironment: environment,
			KeyManagedBy:   managedBy,
		},
	}
}

// From creates a builder seeded with a copy of an existing tag set.
func From(base map[string]string) *TagBuilder {
	b := &TagBuilder{tags: make(map[string]string, len(base))}
	return b.Merge(base)
}

// With sets a single tag.
func (b *TagBuilder) With(key, value string) *TagBuilder {
	b.tags[key] = value
	return b
}

// Merge sets every tag of extra, replacing existing values.
func (b *TagBuilder) Merge(extra map[string]string) *TagBuilder {
	for k, v := range extra {
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tags map.
func (b *TagBuilder) Build() map[string]string {
	result := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		result[k] = v
	}
	return result
}

var gcpLabelInvalid = regexp.MustCompile(`[^a-z0-9_-]`)

// GCPLabels converts tags into GCP resource labels: keys and values are
// lowercased and every character outside [a-z0-9_-] becomes an underscore.
func GCPLabels(tags map[string]string) map[string]string {
	result := make(map[string]string, len(tags))
	for k, v := range tags {
		result[gcpLabel(k)] = gcpLabel(v)
	}
	return result
}

func gcpLabel(s string) string {
	return gcpLabelInvalid.ReplaceAllString(strings.ToLower(s), "_")
}
