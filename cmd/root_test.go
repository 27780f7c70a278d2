package cmd

import (
	"testing"

	"github.com/ibrahmsql/phobos/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPortsEmptySelectionReturnsDefaults(t *testing.T) {
	ports, err := getPorts("")
	require.NoError(t, err)
	assert.Equal(t, scan.DefaultPorts, ports)
}

func TestGetExcludePortsEmptySelectionExcludesNothing(t *testing.T) {
	ports, err := getExcludePorts("")
	require.NoError(t, err)
	assert.Nil(t, ports)
}

func TestGetExcludePortsParsesLikeGetPorts(t *testing.T) {
	ports, err := getExcludePorts("22,80")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80}, ports)
}

func TestGetPortsCommaAndRange(t *testing.T) {
	ports, err := getPorts("22,80,443,8080-8082")
	require.NoError(t, err)
	assert.Equal(t, []int{22, 80, 443, 8080, 8081, 8082}, ports)
}

func TestGetPortsInvalidRangeOrder(t *testing.T) {
	_, err := getPorts("100-50")
	assert.Error(t, err)
}

func TestGetPortsInvalidNumber(t *testing.T) {
	_, err := getPorts("abc")
	assert.Error(t, err)
}

func TestTechniqueForMapsScanTypes(t *testing.T) {
	tech, err := techniqueFor("stealth")
	require.NoError(t, err)
	assert.Equal(t, scan.TechniqueSYN, tech)

	tech, err = techniqueFor("connect")
	require.NoError(t, err)
	assert.Equal(t, scan.TechniqueConnect, tech)

	_, err = techniqueFor("bogus")
	assert.Error(t, err)
}
