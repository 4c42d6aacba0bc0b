// Package wizard provides an interactive configuration wizard for kubecloud.
//
// This package implements a TUI-based wizard that guides users through
// creating a settings file. It uses charmbracelet/huh for form-based input
// collection.
//
// The main entry point is RunWizard, which orchestrates question groups
// and returns a WizardResult. Use BuildDocument to convert results to a
// Document, and WriteDocument to generate the YAML output file.
package wizard
