package solprogram

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// Account discriminators, sha256("account:<Name>")[:8]
var (
	ConfigAccountDisc        = getDiscriminator("account:Config")
	SynidAccountDisc         = getDiscriminator("account:SynidAccount")
	AccessRequestAccountDisc = getDiscriminator("account:AccessRequest")
	AccessGrantAccountDisc   = getDiscriminator("account:AccessGrant")
)

// decodeAccount checks the 8-byte discriminator and Borsh decodes the rest
// into v. Trailing allocation padding is ignored.
func decodeAccount(data []byte, disc [8]byte, v interface{}) error {
	if len(data) < 8 {
		return errors.Wrapf(ErrInvalidAccountData, "data length %d", len(data))
	}
	if !bytes.Equal(data[:8], disc[:]) {
		return errors.Wrapf(ErrInvalidAccountData, "discriminator %v, want %v", data[:8], disc[:])
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(v); err != nil {
		return errors.Wrapf(ErrInvalidAccountData, "%v", err)
	}
	return nil
}

// parseConfigData - Parse config account data
func parseConfigData(data []byte) (*Config, error) {
	var cfg Config
	if err := decodeAccount(data, ConfigAccountDisc, &cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return &cfg, nil
}

// parseSynidData - Parse identity record data
func parseSynidData(data []byte) (*SynidAccount, error) {
	var acc SynidAccount
	if err := decodeAccount(data, SynidAccountDisc, &acc); err != nil {
		return nil, errors.Wrap(err, "synid")
	}
	if len(acc.EncryptedCid) > MaxCidLength {
		return nil, errors.Wrapf(ErrInvalidAccountData, "synid: cid of %d bytes", len(acc.EncryptedCid))
	}
	return &acc, nil
}

// parseAccessRequestData - Parse access request data
func parseAccessRequestData(data []byte) (*AccessRequest, error) {
	var req AccessRequest
	if err := decodeAccount(data, AccessRequestAccountDisc, &req); err != nil {
		return nil, errors.Wrap(err, "access request")
	}
	if len(req.Fields) > MaxAccessFields {
		return nil, errors.Wrapf(ErrInvalidAccountData, "access request: %d fields", len(req.Fields))
	}
	return &req, nil
}

// parseAccessGrantData - Parse access grant data
func parseAccessGrantData(data []byte) (*AccessGrant, error) {
	var grant AccessGrant
	if err := decodeAccount(data, AccessGrantAccountDisc, &grant); err != nil {
		return nil, errors.Wrap(err, "access grant")
	}
	if len(grant.Fields) > MaxAccessFields {
		return nil, errors.Wrapf(ErrInvalidAccountData, "access grant: %d fields", len(grant.Fields))
	}
	return &grant, nil
}
