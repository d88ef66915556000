package models

// PackageMetadata represents all annotated types found in a package
type PackageMetadata struct {
	PackageName string            // name of the Go package
	PackagePath string            // file system path to the package
	Types       []TypeDefinition  // annotated types in source order
	Declared    []string          // every type name declared in the package
	Imports     map[string]string // package alias to import path, for qualified payloads
}

// GeneratedFile represents a generated source file
type GeneratedFile struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Content     string   // generated Go code content
	Types       []string // types that received generated methods
}
