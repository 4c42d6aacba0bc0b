// Package orchestration wires the configuration, preflight validation and
// the provider topology builders into a single Pulumi program.
//
// # Workflow
//
// The Reconciler executes the following phases in order:
//  1. Validation - Preflight checks on the loaded configuration
//  2. Build - The provider topology selected by Dispatch declares its resources
//
// The resulting outputs are exported as stack outputs.
//
// # Usage
//
// Run is the program entry point:
//
//	pulumi.Run(orchestration.Run)
//
// The CLI drives the same program in-process through the Automation API with
// a configured Reconciler:
//
//	program := orchestration.NewReconciler(orchestration.WithMetrics(rec)).Program()
package orchestration
