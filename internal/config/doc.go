// Package config defines the cloud-agnostic cluster model consumed by the
// provider topology builders.
//
// A [ClusterConfig] is built once per deployment by [Load], which reads raw
// key/value input from a [Source], applies defaults, and rejects missing or
// malformed fields with a [FieldError]. The result is treated as immutable.
//
// The package also owns the closed enumerations shared by every builder
// (providers, instance size tiers, taint effects) and the [MachineType]
// lookup that maps a size tier to a provider machine type.
package config
