package identity

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) ClassPutHard(name string, tags []string) {
	f.published = append(f.published, name)
}

func TestProbeMatchesOSValues(t *testing.T) {
	info := Probe()
	assert.Equal(t, os.Getuid(), info.UID)
	assert.Equal(t, os.Getpid(), info.PID)
}

func TestPublishHardClassesPublishesAllFour(t *testing.T) {
	info := Info{UID: 1, GID: 2, PID: 3, PPID: 4}
	pub := &fakePublisher{}
	info.PublishHardClasses(pub)

	assert.Contains(t, pub.published, "uid_1")
	assert.Contains(t, pub.published, "gid_2")
	assert.Contains(t, pub.published, "pid_3")
	assert.Contains(t, pub.published, "ppid_4")
}
