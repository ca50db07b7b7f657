// Package inference provides ONNX Runtime integration for the neural
// dependency parser.
package inference

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Input and output names of the exported biaffine parser graph.
var (
	inputNames  = []string{"input_ids", "attention_mask"}
	outputNames = []string{"arc_scores"}
)

// ArcScores holds an n×n matrix of head scores over subword positions.
// At(dep, head) is the score of head governing dep.
type ArcScores struct {
	N    int
	Data []float32
}

// At returns the score of head governing dep.
func (a ArcScores) At(dep, head int) float32 {
	return a.Data[dep*a.N+head]
}

// Session wraps an ONNX Runtime session for parser inference.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the parser on one tokenized sentence and returns its arc scores.
func (s *Session) Infer(ctx context.Context, inputIDs, attentionMask []int64) (ArcScores, error) {
	select {
	case <-ctx.Done():
		return ArcScores{}, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ArcScores{}, ErrSessionClosed
	}

	seqLen := int64(len(inputIDs))
	shape := ort.NewShape(1, seqLen)

	inputIDsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return ArcScores{}, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDsTensor.Destroy() }()

	attentionMaskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return ArcScores{}, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMaskTensor.Destroy() }()

	inputs := []ort.Value{inputIDsTensor, attentionMaskTensor}
	outputs := []ort.Value{nil} // allocated by Run

	if err := s.session.Run(inputs, outputs); err != nil {
		return ArcScores{}, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return ArcScores{}, fmt.Errorf("%w: no output produced", ErrBadOutput)
	}
	defer func() { _ = outputs[0].Destroy() }()

	scores, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return ArcScores{}, fmt.Errorf("%w: tensor type", ErrBadOutput)
	}

	n := int(seqLen)
	data := scores.GetData()
	if len(data) < n*n {
		return ArcScores{}, fmt.Errorf("%w: %d values for %d tokens", ErrBadOutput, len(data), n)
	}

	out := ArcScores{N: n, Data: make([]float32, n*n)}
	copy(out.Data, data[:n*n])
	return out, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
