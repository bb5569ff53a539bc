package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Coarse pipeline categories. These are the only codes that cross into
	// the orchestration layer and the HTTP boundary.
	CodeDocumentProcessing   ErrorCode = "DOCUMENT_PROCESSING_ERROR"
	CodeVectorStoreOperation ErrorCode = "VECTOR_STORE_OPERATION_ERROR"
	CodeRAGProcessing        ErrorCode = "RAG_PROCESSING_ERROR"
	CodeInsufficientContext  ErrorCode = "INSUFFICIENT_CONTEXT"
	CodeResultNotFound       ErrorCode = "RESULT_NOT_FOUND"
	CodeStorage              ErrorCode = "STORAGE_ERROR"

	// Layer-local codes, always wrapped by one of the coarse categories.
	CodeDocumentLoad        ErrorCode = "DOCUMENT_LOAD_ERROR"
	CodeDirectoryCreation   ErrorCode = "DIRECTORY_CREATION_ERROR"
	CodeDirectoryDeletion   ErrorCode = "DIRECTORY_DELETION_ERROR"
	CodeInvalidDocument     ErrorCode = "INVALID_DOCUMENT"
	CodeVectorStoreCreation ErrorCode = "VECTOR_STORE_CREATION_ERROR"
	CodeVectorStoreSave     ErrorCode = "VECTOR_STORE_SAVE_ERROR"
	CodeVectorStoreLoad     ErrorCode = "VECTOR_STORE_LOAD_ERROR"
	CodeRAGChainExecution   ErrorCode = "RAG_CHAIN_EXECUTION_ERROR"
	CodeLLMResponseParsing  ErrorCode = "LLM_RESPONSE_PARSING_ERROR"
	CodeExplanationJudge    ErrorCode = "EXPLANATION_JUDGE_ERROR"
)

// Sentinels returned by collaborators behind the domain ports.
var (
	// ErrInsufficientContext is returned by a StructuredCompleter when the
	// retrieved context is too sparse to build a quiz.
	ErrInsufficientContext = errors.New("insufficient context to generate a quiz")
	// ErrMalformedCompletion marks a failure that happened after the
	// completion service answered (unparseable or schema-violating output).
	ErrMalformedCompletion = errors.New("malformed completion output")
	// ErrResultNotFound is returned by a ResultStore for an unknown key.
	ErrResultNotFound = errors.New("result not found")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HasCode reports whether any DomainError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var de *DomainError
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

// Document preparation

func NewDocumentProcessingError(message string, err error) *DomainError {
	return NewError(CodeDocumentProcessing, message, err)
}

func NewDocumentLoadError(url string, err error) *DomainError {
	return NewError(CodeDocumentLoad, fmt.Sprintf("failed to load page %s", url), err)
}

// Ephemeral index

func NewVectorStoreOperationError(err error) *DomainError {
	return NewError(CodeVectorStoreOperation, "vector store operation failed", err)
}

func NewDirectoryCreationError(path string, err error) *DomainError {
	return NewError(CodeDirectoryCreation, fmt.Sprintf("failed to create index directory %s", path), err)
}

func NewDirectoryDeletionError(path string, err error) *DomainError {
	return NewError(CodeDirectoryDeletion, fmt.Sprintf("failed to delete index directory %s", path), err)
}

func NewInvalidDocumentError(message string) *DomainError {
	return NewError(CodeInvalidDocument, message, nil)
}

func NewVectorStoreCreationError(err error) *DomainError {
	return NewError(CodeVectorStoreCreation, "failed to create vector store", err)
}

func NewVectorStoreSaveError(path string, err error) *DomainError {
	return NewError(CodeVectorStoreSave, fmt.Sprintf("failed to save vector store to %s", path), err)
}

func NewVectorStoreLoadError(path string, err error) *DomainError {
	return NewError(CodeVectorStoreLoad, fmt.Sprintf("failed to load vector store from %s", path), err)
}

// Generation and evaluation

func NewRAGProcessingError(err error) *DomainError {
	return NewError(CodeRAGProcessing, "quiz generation failed", err)
}

func NewRAGChainExecutionError(err error) *DomainError {
	return NewError(CodeRAGChainExecution, "failed to execute generation chain", err)
}

func NewLLMResponseParsingError(err error) *DomainError {
	return NewError(CodeLLMResponseParsing, "failed to parse LLM response", err)
}

func NewExplanationJudgeError(err error) *DomainError {
	return NewError(CodeExplanationJudge, "failed to judge explanations", err)
}

func NewInsufficientContextError() *DomainError {
	return NewError(CodeInsufficientContext, "not enough information to generate a quiz", nil)
}

// Submission and results

func NewResultNotFoundError(id string) *DomainError {
	return NewError(CodeResultNotFound, fmt.Sprintf("result not found for id %s", id), nil)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorage, message, err)
}
