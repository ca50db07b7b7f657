// Package tokenizer implements SentencePiece Unigram subword segmentation.
//
// It serves two consumers: the corpus pipeline, which segments sentences into
// pieces before binarization and joins them back after generation, and the
// neural dependency parser, which needs XLM-RoBERTa compatible token IDs.
package tokenizer

import (
	"fmt"
	"strings"
)

// Tokenizer implements XLM-RoBERTa compatible SentencePiece Unigram tokenization.
//
// Note: Token IDs are remapped from SentencePiece indices to match HuggingFace
// XLM-RoBERTa convention:
//   - HF[0] = <s>   (SP[1])
//   - HF[1] = <pad> (not in SentencePiece)
//   - HF[2] = </s>  (SP[2])
//   - HF[3] = <unk> (SP[0])
//   - HF[n+1] = SP[n] for n >= 3 (normal tokens shifted by 1)
type Tokenizer struct {
	pieces    map[string]int32   // piece -> SentencePiece index
	scores    map[string]float32 // segmentable piece -> log probability
	idToPiece []string
	unkScore  float32
	nfkc      bool

	bosID int32
	padID int32
	eosID int32
	unkID int32

	maxTokenLen int
}

// TokenInfo is a piece with its rune span in the normalized text.
type TokenInfo struct {
	ID    int32
	Text  string
	Start int
	End   int
}

// New loads a tokenizer from a SentencePiece .model file.
func New(modelPath string) (*Tokenizer, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return FromModel(model), nil
}

// FromModel builds a tokenizer from an already decoded model.
func FromModel(model *Model) *Tokenizer {
	t := &Tokenizer{
		pieces:    make(map[string]int32, len(model.Pieces)),
		scores:    make(map[string]float32, len(model.Pieces)),
		idToPiece: make([]string, len(model.Pieces)),
		nfkc:      strings.Contains(strings.ToLower(model.NormalizerName), "nfkc"),
		// HuggingFace XLM-RoBERTa special token IDs
		bosID: 0, // <s>
		padID: 1, // <pad>
		eosID: 2, // </s>
		unkID: 3, // <unk>
	}

	for i, piece := range model.Pieces {
		t.pieces[piece.Piece] = int32(i)
		t.idToPiece[i] = piece.Piece

		switch piece.Type {
		case Unknown:
			t.unkScore = piece.Score
			continue
		case Control, Unused:
			// never produced by segmentation
			continue
		}
		t.scores[piece.Piece] = piece.Score
		if len(piece.Piece) > t.maxTokenLen {
			t.maxTokenLen = len(piece.Piece)
		}
	}

	return t
}

// spIndexToHFID converts a SentencePiece index to a HuggingFace XLM-RoBERTa token ID.
//
// Mapping:
//   - SP[0] (<unk>) -> HF[3]
//   - SP[1] (<s>)   -> HF[0]
//   - SP[2] (</s>)  -> HF[2]
//   - SP[n] (n>=3)  -> HF[n+1] (normal tokens shifted by 1 due to <pad> insertion)
func (t *Tokenizer) spIndexToHFID(spIndex int32) int32 {
	switch spIndex {
	case 0: // <unk>
		return 3
	case 1: // <s>
		return 0
	case 2: // </s>
		return 2
	default: // normal tokens: shift by 1
		return spIndex + 1
	}
}

// hfIDToSPIndex is the inverse of spIndexToHFID. It returns -1 for <pad>.
func (t *Tokenizer) hfIDToSPIndex(id int32) int32 {
	switch id {
	case 0:
		return 1
	case 1:
		return -1
	case 2:
		return 2
	case 3:
		return 0
	default:
		return id - 1
	}
}

// Close releases tokenizer resources.
func (t *Tokenizer) Close() error {
	return nil
}

// VocabSize returns the vocabulary size (HuggingFace XLM-RoBERTa compatible: 250002).
// This is SentencePiece vocab size + 2 (for the inserted <pad> token and the ID shift).
func (t *Tokenizer) VocabSize() int {
	return len(t.idToPiece) + 2
}

// BOSID returns the beginning-of-sentence token ID.
func (t *Tokenizer) BOSID() int32 { return t.bosID }

// PadID returns the padding token ID.
func (t *Tokenizer) PadID() int32 { return t.padID }

// EOSID returns the end-of-sentence token ID.
func (t *Tokenizer) EOSID() int32 { return t.eosID }

// UnkID returns the unknown token ID.
func (t *Tokenizer) UnkID() int32 { return t.unkID }

// Tokenize segments text into piece strings.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := t.Encode(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

// Detokenize joins pieces back into text, turning word-boundary markers into
// spaces.
func (t *Tokenizer) Detokenize(pieces []string) string {
	joined := strings.Join(pieces, "")
	joined = strings.ReplaceAll(joined, string(sentencePieceSpace), " ")
	return strings.TrimSpace(joined)
}

// DecodeIDs maps HuggingFace-compatible IDs back to text. Special tokens are
// dropped.
func (t *Tokenizer) DecodeIDs(ids []int32) string {
	pieces := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == t.bosID || id == t.eosID || id == t.padID {
			continue
		}
		sp := t.hfIDToSPIndex(id)
		if sp < 0 || int(sp) >= len(t.idToPiece) {
			continue
		}
		pieces = append(pieces, t.idToPiece[sp])
	}
	return t.Detokenize(pieces)
}
