// Package config provides configuration loading, merging, and validation
// facilities for the sync coordinator.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetConfig]. Unset fields fall back to the
// documented defaults (retry budget 3, batch limit 400, 30/60/120s timeout
// tiers) before validation runs.
package config
