// Package version reports the precompress build version.
//
// Values come from -ldflags at build time when set, otherwise from
// debug.ReadBuildInfo, otherwise from development defaults:
//
//	go build -ldflags "-X github.com/dendrascience/precompress/version.Version=v1.0.0 \
//	  -X github.com/dendrascience/precompress/version.Commit=abc1234 \
//	  -X github.com/dendrascience/precompress/version.Date=2024-01-01T00:00:00Z"
package version
