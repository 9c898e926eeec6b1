package chroot

import (
	"testing"

	"github.com/evalcore/agent/internal/evalerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredProjectorIsIdentity(t *testing.T) {
	var p Projector
	assert.Equal(t, "/etc/passwd", p.ToChangesChroot("/etc/passwd"))
	assert.Equal(t, "/etc/passwd", p.ToNormalRoot("/etc/passwd"))
}

func TestToChangesChrootAndBackRoundTrip(t *testing.T) {
	var p Projector
	p.SetChangesChroot("/tmp/sim-root")

	projected := p.ToChangesChroot("/etc/passwd")
	assert.Equal(t, "/tmp/sim-root/etc/passwd", projected)

	restored := p.ToNormalRoot(projected)
	assert.Equal(t, "/etc/passwd", restored)
}

func TestToChangesChrootCollapsesLeadingSeparators(t *testing.T) {
	var p Projector
	p.SetChangesChroot("/tmp/sim-root")
	projected := p.ToChangesChroot("///etc/passwd")
	assert.Equal(t, "/tmp/sim-root/etc/passwd", projected)
}

func TestToChangesChrootPromotesDriveLetter(t *testing.T) {
	var p Projector
	p.SetChangesChroot("/tmp/sim-root")
	projected := p.ToChangesChroot(`C:\Windows\System32`)
	assert.Equal(t, "/tmp/sim-root/C/Windows/System32", projected)
}

func TestSetChangesChrootRejectsRelativeBase(t *testing.T) {
	var p Projector
	assert.Panics(t, func() { p.SetChangesChroot("relative/path") })
}

func TestSetChangesChrootRejectsRelativeBaseContractViolation(t *testing.T) {
	var p Projector
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			_, ok := r.(evalerr.ContractViolation)
			assert.True(t, ok)
		}()
		p.SetChangesChroot("relative/path")
	}()
}

func TestToNormalRootUnrelatedPathUnchanged(t *testing.T) {
	var p Projector
	p.SetChangesChroot("/tmp/sim-root")
	other := "/var/log/messages"
	assert.Equal(t, other, p.ToNormalRoot(other))
}

func TestToChangesChrootRootItselfRoundTrips(t *testing.T) {
	var p Projector
	p.SetChangesChroot("/tmp/sim-root")
	projected := p.ToChangesChroot("/")
	assert.Equal(t, "/tmp/sim-root/", projected)
	assert.Equal(t, "/", p.ToNormalRoot(projected))
}
