// Package kubeconfig normalizes the client configuration each provider
// hands back into one YAML document format.
package kubeconfig

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"sigs.k8s.io/yaml"
)

// GKE exec credential plugin settings.
const (
	GKEAuthPlugin      = "gke-gcloud-auth-plugin"
	GKEAuthAPIVersion  = "client.authentication.k8s.io/v1beta1"
	GKEAuthInstallHint = "Install gke-gcloud-auth-plugin for kubectl auth"
)

// ErrEmpty is returned when a kubeconfig source holds no document.
var ErrEmpty = errors.New("kubeconfig is empty")

// FromJSON converts a JSON kubeconfig, as returned by EKS, to YAML.
func FromJSON(doc string) (string, error) {
	if strings.TrimSpace(doc) == "" {
		return "", ErrEmpty
	}
	out, err := yaml.JSONToYAML([]byte(doc))
	if err != nil {
		return "", fmt.Errorf("failed to convert kubeconfig to YAML: %w", err)
	}
	return string(out), nil
}

// GKEParams are the resolved cluster attributes a GKE kubeconfig is built from.
type GKEParams struct {
	// ContextName is used for the cluster, user and context entries.
	ContextName string
	// Endpoint is the API server address, with or without scheme.
	Endpoint string
	// CACertificate is the base64 encoded cluster CA as GKE reports it.
	CACertificate string
}

// ForGKE synthesizes a single-context kubeconfig that authenticates through
// the gke-gcloud-auth-plugin exec plugin. No static token is embedded.
func ForGKE(p GKEParams) (string, error) {
	ca, err := base64.StdEncoding.DecodeString(p.CACertificate)
	if err != nil {
		return "", fmt.Errorf("failed to decode cluster CA certificate: %w", err)
	}

	cfg := clientcmdapi.NewConfig()
	cfg.Clusters[p.ContextName] = &clientcmdapi.Cluster{
		Server:                   Server(p.Endpoint),
		CertificateAuthorityData: ca,
	}
	cfg.AuthInfos[p.ContextName] = &clientcmdapi.AuthInfo{
		Exec: &clientcmdapi.ExecConfig{
			APIVersion:         GKEAuthAPIVersion,
			Command:            GKEAuthPlugin,
			InstallHint:        GKEAuthInstallHint,
			ProvideClusterInfo: true,
			InteractiveMode:    clientcmdapi.IfAvailableExecInteractiveMode,
		},
	}
	cfg.Contexts[p.ContextName] = &clientcmdapi.Context{
		Cluster:  p.ContextName,
		AuthInfo: p.ContextName,
	}
	cfg.CurrentContext = p.ContextName

	out, err := clientcmd.Write(*cfg)
	if err != nil {
		return "", fmt.Errorf("failed to serialize kubeconfig: %w", err)
	}
	return string(out), nil
}

// DecodeBase64 decodes a base64 kubeconfig blob, as returned by AKS.
func DecodeBase64(blob string) (string, error) {
	out, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("failed to decode kubeconfig: %w", err)
	}
	return string(out), nil
}

// Server returns endpoint as an HTTPS URL.
func Server(endpoint string) string {
	if strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return "https://" + endpoint
}

// Validate checks that doc parses as a kubeconfig with a current context.
func Validate(doc string) error {
	cfg, err := clientcmd.Load([]byte(doc))
	if err != nil {
		return fmt.Errorf("failed to parse kubeconfig: %w", err)
	}
	if cfg.CurrentContext == "" {
		return fmt.Errorf("kubeconfig has no current context")
	}
	if _, ok := cfg.Contexts[cfg.CurrentContext]; !ok {
		return fmt.Errorf("current context %q is not defined", cfg.CurrentContext)
	}
	return nil
}

// WriteFile writes doc to path with owner-only permissions.
func WriteFile(path, doc string) error {
	if strings.TrimSpace(doc) == "" {
		return ErrEmpty
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}
	return nil
}
