package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFflagsRoundTrip(t *testing.T) {
	var c CSRFile
	c.reset(0)

	require.NoError(t, c.Write(CSRFflags, 0x1f, Machine))
	v, err := c.Read(CSRFflags, Machine, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1f), v)
}

func TestCSRCycleIsReadOnly(t *testing.T) {
	var c CSRFile
	c.reset(0)

	assert.NoError(t, c.Write(CSRCycle, 42, Machine), "write to a read-only CSR is a silent no-op, not a trap")

	v, err := c.Read(CSRCycle, Machine, 1234)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), v, "the discarded write must not affect subsequent reads")
}

func TestCSRPrivilegeGatesAccess(t *testing.T) {
	var c CSRFile
	c.reset(0)

	// CSRMHartID lives in the 0xF14 machine-mode-only range; bits [9:8] of
	// 0xF14 decode to minPrivilege == Machine.
	_, err := c.Read(CSRMHartID, User, 0)
	assert.Error(t, err, "user-mode read of mhartid should fail")

	_, err = c.Read(CSRMHartID, Machine, 0)
	assert.NoError(t, err, "machine-mode read of mhartid should succeed")
}

func TestCSRUnknownTraps(t *testing.T) {
	var c CSRFile
	c.reset(0)

	_, err := c.Read(0x123, Machine, 0)
	assert.Error(t, err, "read of an unrecognized, never-written CSR should trap")
}

func TestCSRGenericRoundTrip(t *testing.T) {
	var c CSRFile
	c.reset(0)

	const scratch = 0x7c0 // machine-mode read/write custom-range CSR
	require.NoError(t, c.Write(scratch, 0xdeadbeef, Machine))
	v, err := c.Read(scratch, Machine, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeef), v)
}
