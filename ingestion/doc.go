// Package ingestion discovers skills in repository checkouts and loads them
// into storage. Skills are defined by SKILL.md manifests: YAML front matter
// for metadata, markdown body for instructions. Scanning is a reconcile:
// manifests on disk are authoritative and stored skills with no manifest
// are dropped.
package ingestion
