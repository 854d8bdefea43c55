package core

import (
	"fmt"

	"go.uber.org/zap"
)

var Version string

const NoVersion = "no_version_info"

// ResolveVersion prefers the version baked in at build time over the
// configured one.
func ResolveVersion(versionByBuildFlag, confVersion string) string {
	switch {
	case versionByBuildFlag != "":
		return versionByBuildFlag
	case confVersion != "":
		return confVersion
	default:
		return NoVersion
	}
}

func SetVersion(c *Conf, versionByBuildFlag string) {
	Version = ResolveVersion(versionByBuildFlag, c.Version)
	zap.L().Info(fmt.Sprintf("rcs version is %s", Version))
}
