package errors

import "fmt"

// GenerationError represents errors during code generation
type GenerationError struct {
	*BaseError
	TypeName   string // type being generated
	TargetFile string // file being generated
	Stage      string // generation stage where error occurred
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(typeName, stage string, cause error) *GenerationError {
	return &GenerationError{
		BaseError: Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", typeName), cause),
		TypeName:  typeName,
		Stage:     stage,
	}
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	return &GenerationError{
		BaseError:  Wrap(TemplateErrorCode, fmt.Sprintf("failed to %s template '%s'", operation, templateName), cause),
		TargetFile: templateName,
		Stage:      operation,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapRegisterError wraps an error with a "failed to register" message
func WrapRegisterError(componentType, name string, cause error) *BaseError {
	return Wrap(RegistrationErrorCode, fmt.Sprintf("failed to register %s '%s'", componentType, name), cause)
}

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	return Wrap(UnknownErrorCode, fmt.Sprintf("failed to %s %s", operation, item), cause)
}
