package tokenizer

import (
	"errors"
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrNoPieces indicates a model file that decoded without any vocabulary.
var ErrNoPieces = errors.New("tokenizer: model has no pieces")

// PieceType mirrors ModelProto.SentencePiece.Type.
type PieceType int32

const (
	Normal      PieceType = 1
	Unknown     PieceType = 2
	Control     PieceType = 3
	UserDefined PieceType = 4
	Unused      PieceType = 5
	Byte        PieceType = 6
)

// ModelType mirrors TrainerSpec.ModelType.
type ModelType int32

const (
	Unigram ModelType = 1
	BPE     ModelType = 2
	Word    ModelType = 3
	Char    ModelType = 4
)

// Piece represents a vocabulary piece from the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// Model represents a loaded SentencePiece model.
type Model struct {
	Pieces    []Piece
	ModelType ModelType

	// Special piece indices as stored in the trainer spec.
	UnkID int32
	BOSID int32
	EOSID int32
	PadID int32

	NormalizerName string
	AddDummyPrefix bool
}

// Field numbers of sentencepiece_model.proto.
const (
	fieldPieces     protowire.Number = 1
	fieldTrainer    protowire.Number = 2
	fieldNormalizer protowire.Number = 3

	fieldPiece      protowire.Number = 1
	fieldPieceScore protowire.Number = 2
	fieldPieceType  protowire.Number = 3

	fieldModelType protowire.Number = 3
	fieldUnkID     protowire.Number = 40
	fieldBOSID     protowire.Number = 41
	fieldEOSID     protowire.Number = 42
	fieldPadID     protowire.Number = 43

	fieldNormName       protowire.Number = 1
	fieldAddDummyPrefix protowire.Number = 3
)

// LoadModel loads a SentencePiece model from a .model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	model, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("parsing protobuf: %w", err)
	}
	return model, nil
}

// ParseModel decodes a serialized ModelProto.
func ParseModel(data []byte) (*Model, error) {
	m := &Model{
		ModelType:      Unigram,
		UnkID:          0,
		BOSID:          1,
		EOSID:          2,
		PadID:          -1,
		AddDummyPrefix: true,
	}

	err := walk(data, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldPieces:
			p, err := parsePiece(v)
			if err != nil {
				return fmt.Errorf("piece %d: %w", len(m.Pieces), err)
			}
			m.Pieces = append(m.Pieces, p)
		case fieldTrainer:
			return parseTrainerSpec(v, m)
		case fieldNormalizer:
			return parseNormalizerSpec(v, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(m.Pieces) == 0 {
		return nil, ErrNoPieces
	}
	return m, nil
}

func parsePiece(b []byte) (Piece, error) {
	p := Piece{Type: Normal}
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error {
		switch {
		case num == fieldPiece && typ == protowire.BytesType:
			p.Piece = string(v)
		case num == fieldPieceScore && typ == protowire.Fixed32Type:
			p.Score = math.Float32frombits(uint32(x))
		case num == fieldPieceType && typ == protowire.VarintType:
			p.Type = PieceType(x)
		}
		return nil
	})
	return p, err
}

func parseTrainerSpec(b []byte, m *Model) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, _ []byte, x uint64) error {
		if typ != protowire.VarintType {
			return nil
		}
		switch num {
		case fieldModelType:
			m.ModelType = ModelType(x)
		case fieldUnkID:
			m.UnkID = int32(x)
		case fieldBOSID:
			m.BOSID = int32(x)
		case fieldEOSID:
			m.EOSID = int32(x)
		case fieldPadID:
			m.PadID = int32(x)
		}
		return nil
	})
}

func parseNormalizerSpec(b []byte, m *Model) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error {
		switch {
		case num == fieldNormName && typ == protowire.BytesType:
			m.NormalizerName = string(v)
		case num == fieldAddDummyPrefix && typ == protowire.VarintType:
			m.AddDummyPrefix = protowire.DecodeBool(x)
		}
		return nil
	})
}

// walk calls fn for every field of a serialized message. Length-delimited
// values arrive in v, scalar values in x; unknown wire types are skipped.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		var (
			v []byte
			x uint64
		)
		switch typ {
		case protowire.VarintType:
			x, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var u uint32
			u, n = protowire.ConsumeFixed32(b)
			x = uint64(u)
		case protowire.Fixed64Type:
			x, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			v, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(num, typ, v, x); err != nil {
			return err
		}
	}
	return nil
}
