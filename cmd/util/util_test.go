package util

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildcache/dbc/rpc/transport"
)

// The default endpoint must be a literal ip:port. A hostname such as
// localhost would fall through address parsing to a unix path and never
// reach a TCP server.
func TestDefaultEndpointIsNetworkAddress(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	SetupRPCClientFlags(cmd)

	endpoint, err := cmd.PersistentFlags().GetString("endpoint")
	require.NoError(t, err)

	addr := transport.ParseAddress(endpoint)
	assert.Equal(t, transport.AddrNet, addr.Kind, "default endpoint %q must parse as ip:port", endpoint)
	assert.Equal(t, uint16(4226), addr.Net.Port())
}
