package config

import (
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	pulumiconfig "github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// Source supplies raw configuration values by key. Keys without a
// namespace belong to the project; keys such as "gcp:project" are provider
// scoped.
type Source interface {
	Get(key string) (string, bool)
}

// MapSource is a Source backed by a plain map.
type MapSource map[string]string

// Get implements Source.
func (m MapSource) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// StackSource reads values from the Pulumi stack configuration of a running
// program.
type StackSource struct {
	ctx *pulumi.Context
}

// NewStackSource creates a Source over the stack configuration.
func NewStackSource(ctx *pulumi.Context) *StackSource {
	return &StackSource{ctx: ctx}
}

// Get implements Source.
func (s *StackSource) Get(key string) (string, bool) {
	v, err := pulumiconfig.Try(s.ctx, key)
	if err != nil {
		return "", false
	}
	return v, true
}

// lookup returns a trimmed value and whether it was present and non-empty.
func lookup(src Source, key string) (string, bool) {
	v, ok := src.Get(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
