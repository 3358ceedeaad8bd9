package netx

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ip(s string) net.IP { return net.ParseIP(s) }

func TestChooseBindIP_PrefersPrivateWireless(t *testing.T) {
	got := chooseBindIP([]candidate{
		{name: "eth0", up: true, addrs: []net.IP{ip("192.168.1.5")}},
		{name: "wlan0", up: true, addrs: []net.IP{ip("10.0.0.7")}},
	})
	assert.Equal(t, ip("10.0.0.7").To4(), got)
}

func TestChooseBindIP_WirelessPublicBeatsWiredPrivate(t *testing.T) {
	got := chooseBindIP([]candidate{
		{name: "wlan0", up: true, addrs: []net.IP{ip("203.0.113.9")}},
		{name: "eth0", up: true, addrs: []net.IP{ip("192.168.1.5")}},
	})
	assert.Equal(t, ip("203.0.113.9").To4(), got)
}

func TestChooseBindIP_FallsBackToAnyPrivate(t *testing.T) {
	got := chooseBindIP([]candidate{
		{name: "eth0", up: true, addrs: []net.IP{ip("172.16.3.4")}},
	})
	assert.Equal(t, ip("172.16.3.4").To4(), got)
}

func TestChooseBindIP_SkipsDownLoopbackAndIPv6(t *testing.T) {
	got := chooseBindIP([]candidate{
		{name: "lo", up: true, loopback: true, addrs: []net.IP{ip("127.0.0.1")}},
		{name: "wlan0", up: false, addrs: []net.IP{ip("10.0.0.7")}},
		{name: "eth0", up: true, addrs: []net.IP{ip("fd00::1")}},
	})
	assert.Equal(t, net.IPv4zero, got)
}

func TestLooksWireless(t *testing.T) {
	assert.True(t, looksWireless("wlan0"))
	assert.True(t, looksWireless("Wi-Fi"))
	assert.True(t, looksWireless("wifi0"))
	assert.False(t, looksWireless("eth0"))
}

func TestServerBindIP_NeverNil(t *testing.T) {
	assert.NotNil(t, ServerBindIP())
}
