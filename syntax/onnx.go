package syntax

import (
	"context"
	"errors"
	"fmt"

	"github.com/jdkato/prose/tokenize"

	"github.com/jamesainslie/go-rewrite/inference"
	"github.com/jamesainslie/go-rewrite/tokenizer"
)

// maxSubwords is the encoder's position limit including <s> and </s>.
const maxSubwords = 512

// ONNXParser runs a biaffine dependency parser exported to ONNX. Each word is
// represented by its first subword and heads are picked greedily from the arc
// scores, with cycles broken by attaching to the root.
type ONNXParser struct {
	tok       *tokenizer.Tokenizer
	pool      *inference.Pool
	sentences SentenceSplitter
	words     SentenceSplitter
}

// NewONNXParser loads the parser model and its SentencePiece tokenizer.
// poolSize sessions are created for concurrent Parse calls.
func NewONNXParser(modelPath, tokenizerPath string, poolSize int) (*ONNXParser, error) {
	tok, err := tokenizer.New(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer: %w", err)
	}

	pool, err := inference.NewPool(modelPath, poolSize)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating session pool: %w", err), tok.Close())
	}

	return &ONNXParser{
		tok:       tok,
		pool:      pool,
		sentences: tokenize.NewPunktSentenceTokenizer(),
		words:     tokenize.NewTreebankWordTokenizer(),
	}, nil
}

// Parse splits text into sentences and parses each one.
func (p *ONNXParser) Parse(ctx context.Context, text string) ([]*Node, error) {
	var roots []*Node
	for _, sent := range p.sentences.Tokenize(text) {
		r, err := p.parseSentence(ctx, sent)
		if err != nil {
			return nil, err
		}
		roots = append(roots, r...)
	}
	return roots, nil
}

func (p *ONNXParser) parseSentence(ctx context.Context, sent string) ([]*Node, error) {
	words := p.words.Tokenize(sent)
	if len(words) == 0 {
		return nil, nil
	}

	ids := []int64{int64(p.tok.BOSID())}
	first := make([]int, len(words))
	for i, w := range words {
		pieces := p.tok.EncodeIDs(w)
		if len(pieces) == 0 {
			pieces = []int32{p.tok.UnkID()}
		}
		first[i] = len(ids)
		for _, id := range pieces {
			ids = append(ids, int64(id))
		}
	}
	ids = append(ids, int64(p.tok.EOSID()))
	if len(ids) > maxSubwords {
		return nil, fmt.Errorf("%w: %d subwords exceed %d", ErrNotParsed, len(ids), maxSubwords)
	}

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}

	scores, err := p.pool.Infer(ctx, ids, mask)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", sent, err)
	}

	// Word i+1 sits at subword first[i]; the root is <s> at position 0.
	heads := GreedyHeads(len(words), func(dep, head int) float32 {
		h := 0
		if head > 0 {
			h = first[head-1]
		}
		return scores.At(first[dep-1], h)
	})
	return FromHeads(words, heads)
}

// Close releases the session pool and tokenizer.
func (p *ONNXParser) Close() error {
	return errors.Join(p.pool.Close(), p.tok.Close())
}

// GreedyHeads picks for each word 1..n the highest scoring head among the root
// (0) and the other words, then breaks cycles by re-attaching the cycle member
// with the best root score to the root. The result is a valid input to
// FromHeads.
func GreedyHeads(n int, score func(dep, head int) float32) []int {
	heads := make([]int, n)
	for dep := 1; dep <= n; dep++ {
		best := 0
		for head := 1; head <= n; head++ {
			if head != dep && score(dep, head) > score(dep, best) {
				best = head
			}
		}
		heads[dep-1] = best
	}

	for {
		cycle := findCycle(heads)
		if cycle == nil {
			return heads
		}
		pick := cycle[0]
		for _, dep := range cycle[1:] {
			if score(dep, 0) > score(pick, 0) {
				pick = dep
			}
		}
		heads[pick-1] = 0
	}
}

// findCycle returns the 1-based tokens of one cycle in heads, or nil.
func findCycle(heads []int) []int {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]int, len(heads)+1)
	for start := 1; start <= len(heads); start++ {
		var path []int
		node := start
		for node != 0 && state[node] == unvisited {
			state[node] = onPath
			path = append(path, node)
			node = heads[node-1]
		}
		if node != 0 && state[node] == onPath {
			for i, v := range path {
				if v == node {
					return path[i:]
				}
			}
		}
		for _, v := range path {
			state[v] = done
		}
	}
	return nil
}
