package tunables

import (
	"fmt"
	"runtime/debug"
)

const sdkName = "tunables-go-sdk"

// getUserAgent returns the User-Agent header value sent to the remote API,
// "tunables-go-sdk/<version>", or "tunables-go-sdk/unknown" when the module
// version is not stamped into the binary.
func getUserAgent() string {
	version := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
	}
	return fmt.Sprintf("%s/%s", sdkName, version)
}
