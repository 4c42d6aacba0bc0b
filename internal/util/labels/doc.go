// Package labels provides consistent tagging for cloud resources.
//
// Every resource carries the Project, Environment and ManagedBy base tags.
// User overrides and resource-local tags are layered on top with
// last-write-wins semantics through [TagBuilder]. GCP label rules are
// applied by [GCPLabels].
package labels
