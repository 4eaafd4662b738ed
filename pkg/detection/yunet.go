package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ProfileYuNet tags regions found by the optional YuNet DNN pass.
const ProfileYuNet Profile = "yunet"

// YuNetConfig enables an extra DNN face pass next to the cascades.
// The pass is skipped when ModelPath is empty.
type YuNetConfig struct {
	ModelPath      string  `yaml:"model_path"`      // face_detection_yunet_*.onnx
	ScoreThreshold float64 `yaml:"score_threshold"` // Minimum face score
	NMSThreshold   float64 `yaml:"nms_threshold"`
	TopK           int     `yaml:"top_k"`
}

// DefaultYuNetConfig returns thresholds for webcam-distance faces.
func DefaultYuNetConfig() YuNetConfig {
	return YuNetConfig{
		ScoreThreshold: 0.8,
		NMSThreshold:   0.3,
		TopK:           5000,
	}
}

// YuNet is a Pass backed by OpenCV's FaceDetectorYN.
type YuNet struct {
	detector gocv.FaceDetectorYN
	size     image.Point
	mu       sync.Mutex // Protects inference
}

// NewYuNet loads the ONNX model named in cfg.
func NewYuNet(cfg YuNetConfig) (*YuNet, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, &ProfileError{Profile: ProfileYuNet, Err: fmt.Errorf("model %s: %w", cfg.ModelPath, ErrCascadeNotFound)}
	}

	size := image.Pt(320, 320)
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		size,
		float32(cfg.ScoreThreshold),
		float32(cfg.NMSThreshold),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNet{detector: detector, size: size}, nil
}

// Profile implements Pass.
func (y *YuNet) Profile() Profile {
	return ProfileYuNet
}

// Detect runs the network on the enhanced grayscale image. YuNet expects
// three channels, so the gray image is expanded first.
func (y *YuNet) Detect(gray gocv.Mat) []image.Rectangle {
	y.mu.Lock()
	defer y.mu.Unlock()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(gray, &bgr, gocv.ColorGrayToBGR)

	if sz := image.Pt(bgr.Cols(), bgr.Rows()); sz != y.size {
		y.detector.SetInputSize(sz)
		y.size = sz
	}

	faces := gocv.NewMat()
	defer faces.Close()
	y.detector.Detect(bgr, &faces)

	// Each row: x, y, w, h, five landmark pairs, score.
	rects := make([]image.Rectangle, 0, faces.Rows())
	for r := 0; r < faces.Rows(); r++ {
		x := int(faces.GetFloatAt(r, 0))
		top := int(faces.GetFloatAt(r, 1))
		w := int(faces.GetFloatAt(r, 2))
		h := int(faces.GetFloatAt(r, 3))
		if w <= 0 || h <= 0 {
			continue
		}
		rects = append(rects, image.Rect(x, top, x+w, top+h))
	}
	return rects
}

// Close releases the network.
func (y *YuNet) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.detector.Close()
	return nil
}

var _ Pass = (*YuNet)(nil)
