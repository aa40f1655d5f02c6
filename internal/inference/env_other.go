//go:build !windows

package inference

import "os"

func setNativeEnv(key, value string) {
	_ = os.Setenv(key, value)
}
