package domain

import "errors"

var (
	// ErrInternal is the single error surfaced to callers for unexpected failures.
	ErrInternal = errors.New("internal error")
	// ErrInvalidRequest signals malformed or out-of-range input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrLLMProviderError signals a language model provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrMalformedLLMOutput signals model output that could not be parsed.
	ErrMalformedLLMOutput = errors.New("malformed llm output")
	// ErrSpeechProviderError signals a text-to-speech provider failure.
	ErrSpeechProviderError = errors.New("speech provider error")
	// ErrGeocoderError signals a geocoding transport failure.
	ErrGeocoderError = errors.New("geocoder error")
	// ErrUpstreamError signals a failure of an auxiliary HTTP service.
	ErrUpstreamError = errors.New("upstream error")
)
