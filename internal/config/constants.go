package config

// DefaultSkipExtensions lists archive/binary extensions the filesystem
// watcher ignores when scanning for new PDFs.
var DefaultSkipExtensions = []string{".zip", ".tar", ".gz", ".exe", ".bin", ".dmg", ".iso"}
