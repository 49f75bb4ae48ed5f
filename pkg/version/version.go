package version

// Version is the application version. Overridden at build time via
// -ldflags "-X krishigo/pkg/version.Version=...".
var Version = "0.3.0-dev"
