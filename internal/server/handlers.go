package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/cryptors/tntsource"
)

const defaultSize = 2

var (
	errNoKey    = errors.New("either key or phrase is required")
	errBothKeys = errors.New("key and phrase are mutually exclusive")
)

// Handler serves the /api/v1 routes.
type Handler struct {
	log *logrus.Logger
}

func NewHandler(log *logrus.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Hill cipher API is running",
		"sizes":   matrix.Supported(),
	})
}

func (h *Handler) Encrypt(c *gin.Context) {
	h.cipher(c, hill.Encrypt, "Text encrypted")
}

func (h *Handler) Decrypt(c *gin.Context) {
	h.cipher(c, hill.Decrypt, "Text decrypted")
}

func (h *Handler) cipher(c *gin.Context, op func(string, matrix.Matrix, hill.Observer) (string, error), done string) {
	var req CipherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	m, err := resolveKey(req.Key, req.Phrase, req.Size)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	var trace hill.Trace
	var obs hill.Observer
	if req.Steps {
		obs = &trace
	}

	out, err := op(req.Text, m, obs)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: done,
		Result:  out,
		Steps:   trace,
	})
}

func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	switch {
	case req.Key != nil && req.Phrase != "":
		h.fail(c, http.StatusBadRequest, errBothKeys)
		return
	case req.Key != nil:
		h.validateMatrix(c, matrix.Matrix(req.Key))
		return
	case req.Phrase == "":
		h.fail(c, http.StatusBadRequest, errNoKey)
		return
	}

	size := req.Size
	if size == 0 {
		size = defaultSize
	}

	report, err := key.Inspect(req.Phrase, size)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	res := ValidateResult{
		Invertible:  report.Invertible,
		Matrix:      report.Matrix,
		Needed:      report.Needed,
		Have:        report.Have,
		Suggestions: report.Suggestions,
	}
	if report.Ready() {
		det, _, _ := matrix.DeterminantInverse(report.Matrix)
		res.Determinant = &det
	}

	msg := "Key is invertible"
	switch {
	case !report.Ready():
		msg = fmt.Sprintf("Key phrase needs %d more letters", report.Missing())
	case !report.Invertible:
		msg = "Key is not invertible modulo 26"
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: msg, Result: res})
}

func (h *Handler) validateMatrix(c *gin.Context, m matrix.Matrix) {
	if err := matrix.Validate(m); err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	det, _, _ := matrix.DeterminantInverse(m)
	res := ValidateResult{
		Invertible:  key.Validate(m),
		Determinant: &det,
		Matrix:      m.Normalized(),
	}

	msg := "Key is invertible"
	if !res.Invertible {
		msg = "Key is not invertible modulo 26"
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: msg, Result: res})
}

func (h *Handler) Keygen(c *gin.Context) {
	var req KeygenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	var src key.Source
	if req.Passphrase != "" {
		s, err := tntsource.New(req.Passphrase, "", nil)
		if err != nil {
			h.fail(c, http.StatusBadRequest, err)
			return
		}
		defer s.Close()
		src = s
	}

	m, err := key.Random(req.Size, src, 0)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	k, err := key.New(m)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Key generated",
		Result:  KeyResult{Matrix: m, Letters: k.String()},
	})
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	h.log.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"status": status,
	}).Debugf("request failed: %v", err)

	c.JSON(status, Response{Success: false, Message: err.Error()})
}

// resolveKey picks the key matrix from a request.  A phrase without a size
// uses 2x2.
func resolveKey(k [][]int, phrase string, size int) (matrix.Matrix, error) {
	switch {
	case k != nil && phrase != "":
		return nil, errBothKeys
	case k != nil:
		m := matrix.Matrix(k)
		if size != 0 && m.Size() != size {
			return nil, fmt.Errorf("%w: key is %dx%d, size is %d", matrix.ErrDimensionMismatch, m.Size(), m.Size(), size)
		}
		return m, nil
	case phrase != "":
		if size == 0 {
			size = defaultSize
		}
		return key.DeriveFromText(phrase, size)
	}

	return nil, errNoKey
}

// statusFor maps engine errors to HTTP status codes: malformed requests are
// 400, well formed keys that cannot be used are 422.
func statusFor(err error) int {
	var short *key.InsufficientLengthError
	var size *matrix.UnsupportedSizeError

	switch {
	case errors.Is(err, hill.ErrSingularKey),
		errors.Is(err, key.ErrNoInvertibleKey),
		errors.As(err, &short):
		return http.StatusUnprocessableEntity
	case errors.Is(err, hill.ErrEmptyInput),
		errors.Is(err, errNoKey),
		errors.Is(err, errBothKeys),
		errors.Is(err, key.ErrMalformed),
		errors.Is(err, matrix.ErrEmpty),
		errors.Is(err, matrix.ErrNotSquare),
		errors.Is(err, matrix.ErrDimensionMismatch),
		errors.As(err, &size):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
