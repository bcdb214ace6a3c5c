// Package server exposes the cipher engine over a small JSON API.
package server

import (
	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/cryptors/key"
)

// CipherRequest is the body of the encrypt and decrypt endpoints.  Exactly
// one of Key and Phrase must be given.
type CipherRequest struct {
	Text   string  `json:"text"`
	Key    [][]int `json:"key"`
	Phrase string  `json:"phrase"`
	Size   int     `json:"size" binding:"omitempty,oneof=2 3"`
	Steps  bool    `json:"steps"`
}

// ValidateRequest is the body of the validate endpoint.
type ValidateRequest struct {
	Key    [][]int `json:"key"`
	Phrase string  `json:"phrase"`
	Size   int     `json:"size" binding:"omitempty,oneof=2 3"`
}

// KeygenRequest is the body of the keygen endpoint.  A passphrase selects
// the reproducible tntengine source.
type KeygenRequest struct {
	Size       int    `json:"size" binding:"required,oneof=2 3"`
	Passphrase string `json:"passphrase"`
}

// Response wraps every reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  any         `json:"result,omitempty"`
	Steps   []hill.Step `json:"steps,omitempty"`
}

// ValidateResult describes a key.  Needed and Have are only set for
// phrases.
type ValidateResult struct {
	Invertible  bool             `json:"invertible"`
	Determinant *int             `json:"determinant,omitempty"`
	Matrix      [][]int          `json:"matrix,omitempty"`
	Needed      int              `json:"needed,omitempty"`
	Have        int              `json:"have,omitempty"`
	Suggestions []key.Suggestion `json:"suggestions,omitempty"`
}

// KeyResult is a generated key in both of its notations.
type KeyResult struct {
	Matrix  [][]int `json:"matrix"`
	Letters string  `json:"letters"`
}
