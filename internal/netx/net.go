// Package netx selects the IPv4 address the server binds its UDP socket to.
//
// The preference order mirrors the original deployment: a private (RFC 1918)
// IPv4 address on an interface that looks like a wireless adapter, then any
// IPv4 on a wireless adapter, then any private IPv4 on an up non-loopback
// interface, and finally the wildcard address.
package netx

import (
	"net"
	"strings"
)

type candidate struct {
	name     string
	up       bool
	loopback bool
	addrs    []net.IP
}

func looksWireless(name string) bool {
	id := strings.ToLower(name)
	return strings.Contains(id, "wi-fi") || strings.Contains(id, "wifi") || strings.Contains(id, "wlan")
}

// chooseBindIP applies the preference policy to an already-gathered interface
// list. Split out from ServerBindIP so it can be tested without real NICs.
func chooseBindIP(ifaces []candidate) net.IP {
	var wifiAny, anyPrivate net.IP

	for _, nif := range ifaces {
		if !nif.up || nif.loopback {
			continue
		}
		wifi := looksWireless(nif.name)
		for _, ip := range nif.addrs {
			ip4 := ip.To4()
			if ip4 == nil {
				continue
			}
			if ip4.IsPrivate() && anyPrivate == nil {
				anyPrivate = ip4
			}
			if wifi {
				if ip4.IsPrivate() {
					return ip4
				}
				if wifiAny == nil {
					wifiAny = ip4
				}
			}
		}
	}

	if wifiAny != nil {
		return wifiAny
	}
	if anyPrivate != nil {
		return anyPrivate
	}
	return net.IPv4zero
}

// ServerBindIP enumerates the host's network interfaces and returns the IPv4
// address the server should bind to. It never fails: enumeration errors fall
// back to the wildcard address.
func ServerBindIP() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPv4zero
	}

	candidates := make([]candidate, 0, len(ifaces))
	for _, nif := range ifaces {
		c := candidate{
			name:     nif.Name,
			up:       nif.Flags&net.FlagUp != 0,
			loopback: nif.Flags&net.FlagLoopback != 0,
		}
		addrs, err := nif.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			switch v := a.(type) {
			case *net.IPNet:
				c.addrs = append(c.addrs, v.IP)
			case *net.IPAddr:
				c.addrs = append(c.addrs, v.IP)
			}
		}
		candidates = append(candidates, c)
	}

	return chooseBindIP(candidates)
}
