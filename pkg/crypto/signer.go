package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signer produces HMAC-SHA256 signatures over encoded reports so downstream
// review tools can check a report was not altered.
type Signer struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewSigner(secretKey string, logger *slog.Logger) *Signer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signer{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(data []byte, signature string) error {
	expectedSignature := s.Sign(data)

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		s.logger.Warn("Signature verification failed",
			slog.String("received", signature))
		return ErrInvalidSignature
	}

	return nil
}

// SignReport binds the signature to the batch id as well as the body.
func (s *Signer) SignReport(batchID string, body []byte) string {
	return s.Sign(reportPayload(batchID, body))
}

func (s *Signer) VerifyReport(batchID string, body []byte, signature string) error {
	return s.Verify(reportPayload(batchID, body), signature)
}

func reportPayload(batchID string, body []byte) []byte {
	payload := make([]byte, 0, len(batchID)+1+len(body))
	payload = append(payload, batchID...)
	payload = append(payload, ':')
	return append(payload, body...)
}
