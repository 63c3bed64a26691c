package chatbot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// OrtClassifier runs an exported dense classifier through ONNX Runtime.
// The model must take a [batch, |vocabulary|] float32 tensor and produce a
// [batch, |labels|] float32 tensor.
type OrtClassifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	inDim   int
	outDim  int
	ownsEnv bool
}

// NewOrtClassifier loads the model at modelPath and prepares single-row tensors.
func NewOrtClassifier(cfg OnnxConfig, modelPath string, inDim, outDim int) (*OrtClassifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, notFoundOr(ArtifactClassifier, modelPath, err)
	}
	if inDim <= 0 || outDim <= 0 {
		return nil, parseError(ArtifactClassifier, modelPath, fmt.Errorf("invalid dimensions %dx%d", inDim, outDim))
	}
	c := &OrtClassifier{inDim: inDim, outDim: outDim}
	if !ort.IsInitialized() {
		if cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(cfg.OrtDLL)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, notFoundOr(ArtifactClassifier, modelPath, fmt.Errorf("init onnxruntime: %w", err))
		}
		c.ownsEnv = true
	}
	inName, outName, err := resolveTensorNames(cfg, modelPath, inDim, outDim)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.input, err = ort.NewTensor(ort.NewShape(1, int64(inDim)), make([]float32, inDim))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	c.output, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(outDim)))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	c.session, err = ort.NewAdvancedSession(modelPath,
		[]string{inName}, []string{outName},
		[]ort.Value{c.input}, []ort.Value{c.output}, nil)
	if err != nil {
		c.Close()
		return nil, parseError(ArtifactClassifier, modelPath, err)
	}
	return c, nil
}

func resolveTensorNames(cfg OnnxConfig, modelPath string, inDim, outDim int) (string, string, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return "", "", parseError(ArtifactClassifier, modelPath, err)
	}
	in, err := pickTensor(inputs, cfg.InputName, inDim)
	if err != nil {
		return "", "", parseError(ArtifactClassifier, modelPath, fmt.Errorf("input: %w", err))
	}
	out, err := pickTensor(outputs, cfg.OutputName, outDim)
	if err != nil {
		return "", "", parseError(ArtifactClassifier, modelPath, fmt.Errorf("output: %w", err))
	}
	return in, out, nil
}

func pickTensor(infos []ort.InputOutputInfo, name string, dim int) (string, error) {
	if len(infos) == 0 {
		return "", errors.New("model declares no tensors")
	}
	info := infos[0]
	if name != "" {
		found := false
		for _, candidate := range infos {
			if candidate.Name == name {
				info = candidate
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("tensor %q not found", name)
		}
	}
	if n := len(info.Dimensions); n > 0 {
		last := info.Dimensions[n-1]
		if last > 0 && int(last) != dim {
			return "", fmt.Errorf("tensor %q has width %d, artifacts require %d", info.Name, last, dim)
		}
	}
	return info.Name, nil
}

// Predict implements Classifier. Rows are evaluated one at a time.
func (c *OrtClassifier) Predict(ctx context.Context, batch [][]float32) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, errors.New("classifier is not initialized")
	}
	out := make([][]float32, len(batch))
	for i, vec := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(vec) != c.inDim {
			return nil, fmt.Errorf("input %d has length %d, want %d", i, len(vec), c.inDim)
		}
		copy(c.input.GetData(), vec)
		if err := c.session.Run(); err != nil {
			return nil, fmt.Errorf("run model: %w", err)
		}
		out[i] = cloneVector(c.output.GetData())
	}
	return out, nil
}

// Close releases ORT resources.
func (c *OrtClassifier) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	if c.session != nil {
		errs = append(errs, c.session.Destroy())
		c.session = nil
	}
	if c.input != nil {
		errs = append(errs, c.input.Destroy())
		c.input = nil
	}
	if c.output != nil {
		errs = append(errs, c.output.Destroy())
		c.output = nil
	}
	if c.ownsEnv {
		errs = append(errs, ort.DestroyEnvironment())
		c.ownsEnv = false
	}
	return errors.Join(errs...)
}
