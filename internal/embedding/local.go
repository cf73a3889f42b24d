package embedding

import (
	"context"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// LocalGenerator runs a MiniLM-class sentence-embedding ONNX model in
// process. The ONNX runtime, vocab, and session are loaded lazily on first
// use and shared by all subsequent calls; a failed load is sticky so later
// calls do not retry a broken configuration.
type LocalGenerator struct {
	modelPath string
	vocabPath string
	libPath   string
	dims      int

	mu         sync.Mutex
	inited     bool
	initErr    error
	loadFn     func() error
	tokenizer  *WordPieceTokenizer
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
}

func NewLocalGenerator(modelPath, vocabPath, onnxLibPath string, dims int) *LocalGenerator {
	if dims <= 0 {
		dims = 384
	}
	g := &LocalGenerator{
		modelPath: modelPath,
		vocabPath: vocabPath,
		libPath:   onnxLibPath,
		dims:      dims,
	}
	g.loadFn = g.load
	return g
}

func (g *LocalGenerator) Dimensions() int { return g.dims }

// Embed tokenizes and embeds each text sequentially. Vectors are mean-pooled
// over token positions and L2-normalized, so cosine similarity reduces to a
// dot product of comparable magnitudes.
func (g *LocalGenerator) Embed(ctx context.Context, texts []string) ([]Result, error) {
	if err := g.ensureInit(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, ids := g.tokenizer.Encode(text)
		vec, err := g.run(ids)
		if err != nil {
			return nil, fmt.Errorf("embed text failed: %w", err)
		}
		results = append(results, Result{Vector: vec, Tokens: tokens})
	}
	return results, nil
}

// ensureInit loads the model exactly once. Concurrent first calls block on
// the mutex; whichever wins performs the load and the rest observe its
// result.
func (g *LocalGenerator) ensureInit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inited {
		return g.initErr
	}
	g.initErr = g.loadFn()
	g.inited = true
	return g.initErr
}

func (g *LocalGenerator) load() error {
	if g.libPath != "" {
		ort.SetSharedLibraryPath(g.libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx init environment: %w", err)
	}

	tokenizer, err := LoadWordPieceTokenizer(g.vocabPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	g.tokenizer = tokenizer

	inputs, outputs, err := ort.GetInputOutputInfo(g.modelPath)
	if err != nil {
		return fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("onnx model has no inputs or outputs")
	}
	g.inputNames = make([]string, len(inputs))
	for i := range inputs {
		g.inputNames[i] = inputs[i].Name
	}
	g.outputName = outputs[0].Name

	session, err := ort.NewDynamicAdvancedSession(g.modelPath, g.inputNames, []string{g.outputName}, nil)
	if err != nil {
		return fmt.Errorf("onnx new session: %w", err)
	}
	g.session = session
	return nil
}

// run executes one forward pass. The session is not reentrant, so inference
// is serialized.
func (g *LocalGenerator) run(ids []int64) ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seqLen := int64(len(ids))
	shape := ort.NewShape(1, seqLen)

	idTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("onnx input ids tensor: %w", err)
	}
	defer idTensor.Destroy()

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("onnx attention mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	typeTensor, err := ort.NewTensor(shape, make([]int64, len(ids)))
	if err != nil {
		return nil, fmt.Errorf("onnx token type tensor: %w", err)
	}
	defer typeTensor.Destroy()

	inputs := make([]ort.Value, 0, len(g.inputNames))
	for _, name := range g.inputNames {
		switch name {
		case "input_ids":
			inputs = append(inputs, idTensor)
		case "attention_mask":
			inputs = append(inputs, maskTensor)
		case "token_type_ids":
			inputs = append(inputs, typeTensor)
		default:
			return nil, fmt.Errorf("onnx model wants unknown input %q", name)
		}
	}

	outputs := make([]ort.Value, 1)
	if err := g.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx output is not a float32 tensor")
	}
	defer out.Destroy()

	return meanPool(out.GetData(), g.dims), nil
}

// meanPool averages token-position vectors into one hidden-size vector and
// L2-normalizes it.
func meanPool(data []float32, hidden int) []float32 {
	vec := make([]float32, hidden)
	if hidden == 0 || len(data) < hidden {
		return vec
	}
	n := len(data) / hidden
	for i := 0; i < n; i++ {
		for j := 0; j < hidden; j++ {
			vec[j] += data[i*hidden+j]
		}
	}
	var norm float64
	for j := range vec {
		vec[j] /= float32(n)
		norm += float64(vec[j]) * float64(vec[j])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for j := range vec {
			vec[j] *= inv
		}
	}
	return vec
}
