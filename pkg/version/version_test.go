package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	prevVersion, prevCommit, prevDate := Version, CommitHash, BuildDate
	Version, CommitHash, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, CommitHash, BuildDate = prevVersion, prevCommit, prevDate
	})
}

func TestGet(t *testing.T) {
	t.Run("Should prefer values stamped through ldflags", func(t *testing.T) {
		stamp(t, "v1.2.3", "abc1234", "2026-01-02T03:04:05Z")

		info := Get()

		assert.Equal(t, Info{
			Version:    "v1.2.3",
			CommitHash: "abc1234",
			BuildDate:  "2026-01-02T03:04:05Z",
			GoVersion:  runtime.Version(),
		}, info)
	})

	t.Run("Should never report empty fields", func(t *testing.T) {
		stamp(t, "", "", "")

		info := Get()

		assert.NotEmpty(t, info.Version)
		assert.NotEmpty(t, info.CommitHash)
		assert.NotEmpty(t, info.BuildDate)
	})
}

func TestInfo_String(t *testing.T) {
	t.Run("Should render the build identity on one line", func(t *testing.T) {
		info := Info{Version: "v1.2.3", CommitHash: "abc1234", BuildDate: "2026-01-02"}
		assert.Equal(t, "agentforge v1.2.3 (commit abc1234, built 2026-01-02)", info.String())
	})
}
