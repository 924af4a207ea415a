// Package appdir locates the per-user pktscope directory used for
// config files and the default frame journal.
package appdir

import (
	"os"
	"path/filepath"

	"pktscope-go/pkg/log"
)

var appDirCache string

// AppDir returns $HOME/.pktscope, creating it on first use.
func AppDir() string {
	if appDirCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("%v", err)
		}
		appDirCache = filepath.Join(home, ".pktscope")
		if _, err := os.Stat(appDirCache); os.IsNotExist(err) {
			os.Mkdir(appDirCache, 0755)
		}
	}
	return appDirCache
}
