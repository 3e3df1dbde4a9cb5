package session

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/mcolliat/clashvision/internal/preprocess"
)

// InferenceRuntime is the opaque forward-pass collaborator. It accepts a
// normalized channel-planar tensor and returns the flattened "output0"
// tensor together with its logical shape.
//
// Implementations are not required to be safe for concurrent Run calls.
type InferenceRuntime interface {
	Run(input *preprocess.ImageBuffer32) (data []float32, dims []int64, err error)
	Close() error
}

const (
	inputName  = "images"
	outputName = "output0"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initORT initializes the ONNX Runtime environment exactly once per
// process. The shared library location can be overridden with the
// ONNXRUNTIME_SHARED_LIBRARY_PATH environment variable.
func initORT() error {
	ortInitOnce.Do(func() {
		ort.SetSharedLibraryPath(sharedLibPath())
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

func sharedLibPath() string {
	if path := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); path != "" {
		return path
	}
	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.dylib"
		}
		return "./third_party/onnxruntime.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
}

// ortRuntime backs InferenceRuntime with an ONNX Runtime session. The
// output shape is left dynamic: only the tensor name is assumed, not its
// dimensions, so one runtime serves both decoder layouts.
type ortRuntime struct {
	session *ort.DynamicAdvancedSession
}

func newORTRuntime(modelPath string, modelBytes []byte) (*ortRuntime, error) {
	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime environment: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	var s *ort.DynamicAdvancedSession
	if modelBytes != nil {
		s, err = ort.NewDynamicAdvancedSessionWithONNXData(modelBytes,
			[]string{inputName}, []string{outputName}, options)
	} else {
		s, err = ort.NewDynamicAdvancedSession(modelPath,
			[]string{inputName}, []string{outputName}, options)
	}
	if err != nil {
		return nil, fmt.Errorf("create inference session: %w", err)
	}
	return &ortRuntime{session: s}, nil
}

func (r *ortRuntime) Run(input *preprocess.ImageBuffer32) ([]float32, []int64, error) {
	shape := input.Shape()
	inputTensor, err := ort.NewTensor(ort.NewShape(shape[0], shape[1], shape[2], shape[3]), input.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	// A nil output slot lets the runtime allocate the tensor, whatever
	// its shape turns out to be.
	outputs := []ort.Value{nil}
	if err := r.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, nil, fmt.Errorf("run inference: %w", err)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("output tensor %q is not float32", outputName)
	}

	dims := out.GetShape()
	data := make([]float32, len(out.GetData()))
	copy(data, out.GetData())
	return data, []int64(dims), nil
}

func (r *ortRuntime) Close() error {
	if r.session == nil {
		return nil
	}
	err := r.session.Destroy()
	r.session = nil
	return err
}
