package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// StaticDir is where the server serves /static from
var StaticDir = "static"

// versionedAssets are the files the layout links with a ?v= hash
var versionedAssets = []string{
	"css/site.css",
	"js/modals.js",
	"js/checkout.js",
	"images/favicon.svg",
}

var (
	assetVersions     map[string]string
	assetVersionsOnce sync.Once
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions() {
	assetVersionsOnce.Do(func() {
		versions := make(map[string]string, len(versionedAssets))
		for _, name := range versionedAssets {
			version := computeFileHash(filepath.Join(StaticDir, name))
			if version == "" {
				version = "1"
			}
			versions[name] = version
		}
		assetVersions = versions
		log.Printf("[INFO] Asset versions initialized: %d files", len(versions))
	})
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[WARNING] Failed to open file for hashing %s: %v", path, err)
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Printf("[WARNING] Failed to hash file %s: %v", path, err)
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// GetAssetVersion returns the version hash for a file under StaticDir.
// ctx is unused; versions are computed once at startup.
func GetAssetVersion(ctx context.Context, name string) string {
	if version, ok := assetVersions[name]; ok {
		return version
	}
	return "1"
}

// AssetURL returns the cache-busted /static URL for name
func AssetURL(ctx context.Context, name string) string {
	return "/static/" + name + "?v=" + GetAssetVersion(ctx, name)
}
