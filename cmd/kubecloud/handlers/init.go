package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kubecloud/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildDocument    = wizard.BuildDocument
	wizardWriteDocument    = wizard.WriteDocument
	wizardInteractive      = wizard.Interactive
)

// Init runs the configuration wizard and writes the settings file.
func Init(ctx context.Context, outputPath string, force bool) error {
	if wizardFileExists(outputPath) && !force {
		confirmed, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := wizardRunWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	doc, err := wizardBuildDocument(result)
	if err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	cfg, err := doc.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := wizardWriteDocument(doc, outputPath); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	fmt.Println()
	fmt.Print(wizard.Summary(cfg, outputPath, wizardInteractive()))
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("kubecloud - managed Kubernetes on AWS, GCP and Azure")
	fmt.Println("====================================================")
	fmt.Println()
	fmt.Println("This wizard creates a settings file with sensible defaults.")
	fmt.Println()
}
