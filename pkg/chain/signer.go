package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rotisserie/eris"
)

// ParsePrivateKey parses a hex encoded secp256k1 key, with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, eris.Wrap(err, "invalid private key")
	}
	return key, nil
}

// Signer holds the keeper account's transactor. One Signer is shared by every vault client
// using the same account; sends are serialized so concurrent vault checks do not race on the
// pending nonce.
type Signer struct {
	mu   sync.Mutex
	auth *bind.TransactOpts
}

func NewSigner(key *ecdsa.PrivateKey, chainID *big.Int) (*Signer, error) {
	if key == nil {
		return nil, eris.New("private key is required")
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, eris.New("chain id must be positive")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create transactor")
	}
	return &Signer{auth: auth}, nil
}

// Address is the account transactions are sent from.
func (s *Signer) Address() common.Address {
	return s.auth.From
}

// CheckAddress returns an error if the signer does not control the expected account.
func (s *Signer) CheckAddress(expected common.Address) error {
	if s.auth.From != expected {
		return eris.Errorf("private key controls %s, expected %s", s.auth.From.Hex(), expected.Hex())
	}
	return nil
}

// send runs fn with a per call copy of the transactor bound to ctx while holding the send lock.
func (s *Signer) send(ctx context.Context, fn func(opts *bind.TransactOpts) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := *s.auth
	opts.Context = ctx
	return fn(&opts)
}
