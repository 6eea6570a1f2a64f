package ingest

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// possibleDirs lists where a named directory of sheets may live relative to
// the running binary and the source tree.
func possibleDirs(dirName string) []string {
	return []string{
		dirName,
		filepath.Join(os.Getenv("GOPATH"), "src/badc0de.net/pkg/go-paperdoll", dirName),
		os.Args[0] + ".runfiles/go_paperdoll/" + dirName,
		filepath.Join(filepath.Dir(os.Args[0]), dirName),
	}
}

// Find locates a directory named dirName and returns a path to it, or an
// empty string if none of the usual places has it.
func Find(dirName string) string {
	for _, path := range possibleDirs(dirName) {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			glog.Infof("ingest.Find(%q)=%s", dirName, path)
			return path
		}
	}
	return ""
}

// SetupDirFlag creates a new string flag with the passed name, defaulting to
// the directory Find locates, or to an empty string.
func SetupDirFlag(dirName, flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, Find(dirName), "Path to the "+dirName+" directory")
}
