package inference

import "os"

// prependPathEnv puts dir at the front of the named search-path
// environment variable (PATH, DYLD_LIBRARY_PATH, ...) so a shared library
// next to the onnxruntime binary resolves its own dependencies.
func prependPathEnv(name, dir string) {
	existing := os.Getenv(name)
	if existing == "" {
		setNativeEnv(name, dir)
		return
	}
	setNativeEnv(name, dir+string(os.PathListSeparator)+existing)
}
