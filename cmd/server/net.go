package main

import (
	"fmt"
	"net"

	"github.com/luca-patrignani/blackjack/discovery"
)

// localIP returns the address of the interface used for outbound traffic.
// Dialing UDP sends no packet, it only makes the kernel pick a route.
func localIP() (net.IP, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP, nil
}

// subnetOf returns the IP network (CIDR) of the interface that owns ip.
func subnetOf(ip net.IP) (net.IPNet, error) {
	if ip == nil || ip.IsUnspecified() {
		return net.IPNet{}, fmt.Errorf("unspecified IP %v", ip)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}
	for _, ifi := range ifaces {
		addrs, _ := ifi.Addrs()
		for _, a := range addrs {
			var ipnet *net.IPNet
			switch v := a.(type) {
			case *net.IPNet:
				ipnet = v
			case *net.IPAddr:
				ipnet = &net.IPNet{IP: v.IP, Mask: v.IP.DefaultMask()}
			default:
				continue
			}
			if ipnet == nil {
				continue
			}
			if ipnet.Contains(ip) || ipnet.IP.Equal(ip) {
				return *ipnet, nil
			}
		}
	}
	return net.IPNet{}, fmt.Errorf("no interface found for ip %v", ip)
}

// broadcastAddress returns the directed broadcast address of an IPv4 network.
func broadcastAddress(ipnet net.IPNet) (net.IP, error) {
	ip := ipnet.IP.To4()
	if ip == nil {
		return nil, fmt.Errorf("%v is not an IPv4 network", ipnet.String())
	}
	mask := ipnet.Mask
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if len(mask) != net.IPv4len {
		return nil, fmt.Errorf("invalid mask %v", mask)
	}
	broadcast := make(net.IP, net.IPv4len)
	for i := range ip {
		broadcast[i] = ip[i] | ^mask[i]
	}
	return broadcast, nil
}

// offerDestination resolves the -broadcast setting. "auto" picks the broadcast
// address of the subnet of ip and falls back to the limited broadcast address.
func offerDestination(setting string, ip net.IP) string {
	if setting != "auto" {
		return setting
	}
	subnet, err := subnetOf(ip)
	if err != nil {
		return discovery.DefaultBroadcastAddress
	}
	broadcast, err := broadcastAddress(subnet)
	if err != nil {
		return discovery.DefaultBroadcastAddress
	}
	return broadcast.String()
}
