package config

// machineTypes maps each size tier to a provider machine type. Every
// (provider, tier) pair of the closed enumerations is present.
var machineTypes = map[Provider]map[InstanceSize]string{
	ProviderAWS: {
		SizeSmall:  "t3.small",
		SizeMedium: "t3.medium",
		SizeLarge:  "t3.large",
		SizeXLarge: "t3.xlarge",
	},
	ProviderGCP: {
		SizeSmall:  "e2-small",
		SizeMedium: "e2-medium",
		SizeLarge:  "e2-standard-2",
		SizeXLarge: "e2-standard-4",
	},
	ProviderAzure: {
		SizeSmall:  "Standard_B2s_v2",
		SizeMedium: "Standard_B4s_v2",
		SizeLarge:  "Standard_D2s_v3",
		SizeXLarge: "Standard_D4s_v3",
	},
}

// MachineType returns the provider machine type for a size tier.
func MachineType(p Provider, size InstanceSize) string {
	return machineTypes[p][size]
}
