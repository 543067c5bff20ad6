package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultUserAgent         = "Mozilla/5.0 (Linux; Android 10) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 2 * time.Second
	DefaultRequestDelay      = 1 * time.Second
	DefaultMinContentLength  = 100
	DefaultCacheTTL          = time.Duration(0) // disabled
	DefaultCacheMaxSizeBytes = 100 * 1024 * 1024 // 100MB
	DefaultLogFileMaxSizeMB  = 10
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	sdcardRoot     = "/sdcard"
	sdcardDirName  = "AIML_API_Docs"
	homeDirName    = "aiml-scraper"
	homeOutputName = "scraped_docs"
)

// DefaultOutputDir returns /sdcard/AIML_API_Docs when shared storage is
// writable, otherwise ~/aiml-scraper/scraped_docs
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return defaultOutputDir(sdcardRoot, home)
}

func defaultOutputDir(sdcard, home string) string {
	if isWritableDir(sdcard) {
		return filepath.Join(sdcard, sdcardDirName)
	}
	return filepath.Join(home, homeDirName, homeOutputName)
}

func isWritableDir(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.CreateTemp(dir, ".modeldocs-write-check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
