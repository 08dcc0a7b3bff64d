package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProducerClosed is returned by Publish after Close.
	ErrProducerClosed = errors.New("kafka producer is closed")

	// ErrConsumerClosed is returned by Start after Close.
	ErrConsumerClosed = errors.New("kafka consumer is closed")

	// ErrInvalidMessage indicates a message that can never be delivered.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyKey indicates a message without a partition key.
	ErrEmptyKey = errors.New("message key cannot be empty")

	// ErrEmptyValue indicates a message without a payload.
	ErrEmptyValue = errors.New("message value cannot be empty")
)

// ErrorType tells the consumer whether a failed message is worth retrying.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota

	// ErrorTypeTransient covers network issues and timeouts.
	ErrorTypeTransient

	// ErrorTypePermanent covers malformed payloads and schema mismatches.
	ErrorTypePermanent

	// ErrorTypeBusiness covers rejected but well-formed events.
	ErrorTypeBusiness
)

// KafkaError wraps an error with its classification.
type KafkaError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *KafkaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func (e *KafkaError) IsTransient() bool {
	return e.Type == ErrorTypeTransient
}

func (e *KafkaError) IsPermanent() bool {
	return e.Type == ErrorTypePermanent
}

func NewTransientError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func NewPermanentError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypePermanent, Message: message, Err: err}
}

func NewBusinessError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeBusiness, Message: message, Err: err}
}

var transientPatterns = []string{
	"connection refused",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"connection reset",
	"temporary failure",
	"server selection error",
}

// ClassifyError classifies an error as transient or permanent. Errors that
// match no known transient pattern are treated as permanent.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Type
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}
	return ErrorTypePermanent
}

// ShouldRetry reports whether a failed message gets another attempt.
func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil || currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
