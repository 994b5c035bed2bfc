package internalerrors

import "fmt"

var (
	ErrMissingWorkspace = fmt.Errorf("workspace id not found in notification payload")
	ErrMalformedPayload = fmt.Errorf("missing or invalid notification payload")
	ErrSignatureMissing = fmt.Errorf("missing notification signature header")
	ErrSignatureEmpty   = fmt.Errorf("empty notification signature header")
	ErrSignatureInvalid = fmt.Errorf("invalid notification signature")
	ErrRemoteAPI        = fmt.Errorf("TFE API request failed")
)
