package cmd

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTargetLiteralIP(t *testing.T) {
	ips, err := expandTarget("10.0.0.5")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Equal(t, "10.0.0.5", ips[0].String())
}

func TestExpandTargetCIDR(t *testing.T) {
	ips, err := expandTarget("192.168.1.0/30")
	require.NoError(t, err)

	var got []string
	for _, ip := range ips {
		got = append(got, ip.String())
	}

	assert.Equal(t, []string{"192.168.1.0", "192.168.1.1", "192.168.1.2", "192.168.1.3"}, got)
}

func TestExpandTargetsDeduplicatesAcrossArgs(t *testing.T) {
	ips, err := expandTargets([]string{"10.0.0.1,10.0.0.2", "10.0.0.1"})
	require.NoError(t, err)
	require.Len(t, ips, 2)
}

func TestExpandTargetUnresolvableHostnameErrors(t *testing.T) {
	_, err := expandTarget("this-host-definitely-does-not-resolve.invalid")
	assert.Error(t, err)
}

func TestIncrementIPCarriesAcrossOctets(t *testing.T) {
	ip := net.IP{10, 0, 0, 255}
	incrementIP(ip)
	assert.Equal(t, "10.0.1.0", ip.String())
}
