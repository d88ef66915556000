package generator

import "github.com/toyz/dendrite/internal/models"

// CodeGenerator turns the annotated types of one package into a source file
// implementing the command contract for each of them
type CodeGenerator interface {
	GeneratePackage(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
