package config

// Validate checks the structural invariants every builder relies on: the
// provider block matches the provider, required identifiers are present, and
// there is at least one node pool and one private subnet.
func (c *ClusterConfig) Validate() error {
	if _, err := ParseProvider(string(c.Provider)); err != nil {
		return invalidError(KeyCloudProvider, "%v", err)
	}
	if c.ClusterName == "" {
		return requiredError("clusterName")
	}
	if c.Region == "" {
		return requiredError(KeyRegion)
	}

	if err := c.validateProviderBlock(); err != nil {
		return err
	}

	if c.Network.VPCCIDR == "" {
		return requiredError(KeyVPCCIDR)
	}
	if len(c.Network.PrivateSubnetCIDRs) == 0 {
		return invalidError(KeyPrivateSubnets, "must contain at least one subnet")
	}

	if len(c.NodePools) == 0 {
		return invalidError(KeyNodePools, "must contain at least one node pool")
	}

	return nil
}

// validateProviderBlock ensures exactly one provider-specific block is set
// and that it belongs to the configured provider.
func (c *ClusterConfig) validateProviderBlock() error {
	set := 0
	for _, present := range []bool{c.AWS != nil, c.GCP != nil, c.Azure != nil} {
		if present {
			set++
		}
	}
	if set > 1 {
		return invalidError(KeyCloudProvider, "exactly one provider block may be set, found %d", set)
	}

	switch c.Provider {
	case ProviderAWS:
		if c.AWS == nil {
			return invalidError("aws", "provider %q requires the aws block", c.Provider)
		}
	case ProviderGCP:
		if c.GCP == nil {
			return invalidError("gcp", "provider %q requires the gcp block", c.Provider)
		}
		if c.GCP.ProjectID == "" {
			return requiredError(KeyGCPProject)
		}
	case ProviderAzure:
		if c.Azure == nil {
			return invalidError("azure", "provider %q requires the azure block", c.Provider)
		}
		if c.Azure.ResourceGroupName == "" {
			return requiredError(KeyAzureResourceGroup)
		}
	}
	return nil
}
