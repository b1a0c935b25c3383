// Package config provides configuration loading, merging, and validation
// facilities for the sync client and the remote store server.
//
// Configuration is assembled from multiple sources. A field keeps the value
// of the first source that sets it:
//  1. Environment variables (an optional .env file is loaded first)
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] and [GetServerConfig], each
// returning a validated view of [StructuredConfig].
package config
