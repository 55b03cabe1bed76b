package solprogram

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// getDiscriminator - first 8 bytes of sha256("<namespace>:<name>")
func getDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte(name))
	var disc [8]byte
	copy(disc[:], hash[:8])
	return disc
}

// Instruction discriminators
var (
	UpdateConfigDisc     = getDiscriminator("global:update_config")
	VerifyIdentityDisc   = getDiscriminator("global:verify_identity")
	UpdateReputationDisc = getDiscriminator("global:update_reputation")
	WithdrawTreasuryDisc = getDiscriminator("global:withdraw_treasury")
)

// InitializeDiscriminator as published in the program IDL,
// sha256("global:initialize")[:8].
var InitializeDiscriminator = [8]byte{175, 175, 109, 31, 13, 152, 155, 237}

// UpdateConfigArgs - nil fields are left unchanged on-chain
type UpdateConfigArgs struct {
	MintPrice *uint64
	AccessFee *uint64
	Paused    *bool
}

func (a UpdateConfigArgs) IsEmpty() bool {
	return a.MintPrice == nil && a.AccessFee == nil && a.Paused == nil
}

// encodeInstructionData writes disc followed by the Borsh encoded args.
func encodeInstructionData(disc [8]byte, args func(enc *bin.Encoder) error) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, err
	}
	if args != nil {
		if err := args(enc); err != nil {
			return nil, errors.Wrap(err, "failed to encode instruction args")
		}
	}
	return buf.Bytes(), nil
}

func writeOptionalUint64(enc *bin.Encoder, v *uint64) error {
	if err := enc.WriteBool(v != nil); err != nil || v == nil {
		return err
	}
	return enc.WriteUint64(*v, binary.LittleEndian)
}

func writeOptionalBool(enc *bin.Encoder, v *bool) error {
	if err := enc.WriteBool(v != nil); err != nil || v == nil {
		return err
	}
	return enc.WriteBool(*v)
}

// EncodeInitializeArgs - discriminator(8) + mint_price(8 LE) + access_fee(8 LE)
func EncodeInitializeArgs(mintPrice, accessFee uint64) []byte {
	// bytes.Buffer writes do not fail
	data, _ := encodeInstructionData(InitializeDiscriminator, func(enc *bin.Encoder) error {
		if err := enc.WriteUint64(mintPrice, binary.LittleEndian); err != nil {
			return err
		}
		return enc.WriteUint64(accessFee, binary.LittleEndian)
	})
	return data
}

// EncodeUpdateConfigArgs - discriminator + three Borsh options
func EncodeUpdateConfigArgs(args UpdateConfigArgs) ([]byte, error) {
	return encodeInstructionData(UpdateConfigDisc, func(enc *bin.Encoder) error {
		if err := writeOptionalUint64(enc, args.MintPrice); err != nil {
			return err
		}
		if err := writeOptionalUint64(enc, args.AccessFee); err != nil {
			return err
		}
		return writeOptionalBool(enc, args.Paused)
	})
}

// BuildInitializeInstruction builds initialize. The authority also becomes
// the treasury.
func BuildInitializeInstruction(
	programID solana.PublicKey,
	authority solana.PublicKey,
	mintPrice uint64,
	accessFee uint64,
) (solana.Instruction, error) {
	configPDA, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(configPDA).WRITE(),
			solana.Meta(authority).WRITE().SIGNER(),
			solana.Meta(authority),
			solana.Meta(SystemProgramID),
		},
		EncodeInitializeArgs(mintPrice, accessFee),
	), nil
}

// BuildUpdateConfigInstruction builds update_config
func BuildUpdateConfigInstruction(
	programID solana.PublicKey,
	authority solana.PublicKey,
	args UpdateConfigArgs,
) (solana.Instruction, error) {
	if args.IsEmpty() {
		return nil, errors.New("update_config needs at least one field")
	}
	configPDA, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return nil, err
	}
	data, err := EncodeUpdateConfigArgs(args)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(configPDA).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	), nil
}

// BuildVerifyIdentityInstruction builds verify_identity for owner's record
func BuildVerifyIdentityInstruction(
	programID solana.PublicKey,
	authority solana.PublicKey,
	owner solana.PublicKey,
) (solana.Instruction, error) {
	configPDA, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return nil, err
	}
	synidPDA, _, err := DeriveSynidPDA(programID, owner)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstructionData(VerifyIdentityDisc, nil)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(configPDA),
			solana.Meta(synidPDA).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	), nil
}

// BuildUpdateReputationInstruction builds update_reputation. The program
// clamps the resulting score to 0..1000.
func BuildUpdateReputationInstruction(
	programID solana.PublicKey,
	authority solana.PublicKey,
	owner solana.PublicKey,
	delta int16,
) (solana.Instruction, error) {
	configPDA, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return nil, err
	}
	synidPDA, _, err := DeriveSynidPDA(programID, owner)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstructionData(UpdateReputationDisc, func(enc *bin.Encoder) error {
		return enc.WriteInt16(delta, binary.LittleEndian)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(configPDA),
			solana.Meta(synidPDA).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	), nil
}

// BuildWithdrawTreasuryInstruction builds withdraw_treasury
func BuildWithdrawTreasuryInstruction(
	programID solana.PublicKey,
	authority solana.PublicKey,
	treasury solana.PublicKey,
	amount uint64,
) (solana.Instruction, error) {
	if amount == 0 {
		return nil, errors.New("withdraw amount must be positive")
	}
	configPDA, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return nil, err
	}
	data, err := encodeInstructionData(WithdrawTreasuryDisc, func(enc *bin.Encoder) error {
		return enc.WriteUint64(amount, binary.LittleEndian)
	})
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		programID,
		solana.AccountMetaSlice{
			solana.Meta(configPDA),
			solana.Meta(treasury).WRITE(),
			solana.Meta(authority).WRITE().SIGNER(),
		},
		data,
	), nil
}
