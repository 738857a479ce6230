package config

// SourceFileExt is the canonical extension for configuration-language
// source files loaded from the filesystem.
const SourceFileExt = ".sere"

// DefaultFallbackOperator is the name under which the `?` default-coalescing
// operator and `or` import-fallback share their diagnostic vocabulary;
// kept as a constant so error messages and documentation stay in sync.
const DefaultFallbackOperator = "or"
