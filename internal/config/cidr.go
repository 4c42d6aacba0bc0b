package config

import (
	"encoding/binary"
	"fmt"
	"net"
)

// CIDRSubnet calculates a subnet address given a network address, a netmask size increase, and a subnet number.
// This mimics the behavior of Terraform's cidrsubnet function.
//
// Parameters:
//   - prefix: The network prefix (e.g., "10.0.0.0/16")
//   - newbits: The number of additional bits to add to the prefix length (e.g., 8 for /24 inside /16)
//   - netnum: The zero-based index of the subnet to calculate
//
// Only IPv4 is supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return "", err
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits
	if newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	if maxSubnets := 1 << newbits; netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d is out of range for %d subnets of %s", netnum, maxSubnets, prefix)
	}

	// #nosec G115
	offset := uint32(netnum) << (totalBits - newMaskSize)
	ip := ipFromUint32(ipToUint32(network.IP) + offset)

	return fmt.Sprintf("%s/%d", ip, newMaskSize), nil
}

// CIDRHost calculates a full host IP address for a given network address and host number.
// This mimics the behavior of Terraform's cidrhost function. Negative host
// numbers count back from the end of the range.
func CIDRHost(prefix string, hostnum int) (string, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return "", err
	}

	maskSize, totalBits := network.Mask.Size()
	maxHosts := uint64(1) << (totalBits - maskSize)

	var offset uint64
	if hostnum < 0 {
		back := uint64(-hostnum)
		if back > maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
		offset = maxHosts - back
	} else {
		offset = uint64(hostnum)
		if offset >= maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
	}

	// #nosec G115
	return ipFromUint32(ipToUint32(network.IP) + uint32(offset)).String(), nil
}

// SubnetCIDRs carves one subnet per netnum out of prefix, each newbits
// longer than the prefix.
func SubnetCIDRs(prefix string, newbits int, netnums []int) ([]string, error) {
	subnets := make([]string, 0, len(netnums))
	for _, n := range netnums {
		s, err := CIDRSubnet(prefix, newbits, n)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, s)
	}
	return subnets, nil
}

func parseIPv4CIDR(prefix string) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if network.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	return network, nil
}

func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

func ipFromUint32(val uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, val)
	return ip
}
