package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mcolliat/clashvision/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("clashvision %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		modelPath  = flag.String("model", "", "path to the ONNX detection model (required)")
		variant    = flag.String("variant", "yolov8", "model output layout: yolov8 or yolov10")
		configPath = flag.String("config", "", "optional YAML config file")
		outputDir  = flag.String("output", "", "output directory (overrides config)")
		format     = flag.String("format", "", "detection record format: txt or json (overrides config)")
		confidence = flag.Float64("confidence", -1, "confidence threshold (overrides config)")
		iou        = flag.Float64("iou", -1, "IoU threshold for suppression (overrides config)")
		workers    = flag.Int("workers", runtime.NumCPU(), "number of parallel inference workers")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "error: -model is required")
		flag.Usage()
		os.Exit(2)
	}
	images := flag.Args()
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input images given")
		flag.Usage()
		os.Exit(2)
	}

	cfg := session.DefaultConfig()
	if *configPath != "" {
		loaded, err := session.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}
	if *confidence >= 0 {
		cfg.ConfidenceThreshold = float32(*confidence)
	}
	if *iou >= 0 {
		cfg.IoUThreshold = float32(*iou)
	}

	failed, err := run(log, *modelPath, *variant, cfg, images, *workers)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if failed > 0 {
		log.Errorf("%d of %d images failed", failed, len(images))
		os.Exit(1)
	}
}

// run fans the image list out over a pool of sessions, one per worker.
// ONNX Runtime sessions allow one in-flight call each, so parallelism
// comes from independent sessions rather than shared ones.
func run(log *logrus.Logger, modelPath, variant string, cfg session.Config, images []string, workers int) (failed int, err error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(images) {
		workers = len(images)
	}

	pool := make(chan *session.Session, workers)
	for i := 0; i < workers; i++ {
		s, err := session.New(modelPath, variant, cfg)
		if err != nil {
			close(pool)
			for s := range pool {
				s.Close()
			}
			return 0, fmt.Errorf("open session: %w", err)
		}
		pool <- s
	}
	defer func() {
		close(pool)
		for s := range pool {
			s.Close()
		}
	}()

	var g errgroup.Group
	g.SetLimit(workers)
	failures := make(chan string, len(images))

	for _, img := range images {
		img := img
		g.Go(func() error {
			s := <-pool
			defer func() { pool <- s }()

			boxes, err := s.ProcessImage(img)
			if err != nil {
				log.WithField("image", img).Errorf("processing failed: %v", err)
				failures <- img
				return nil
			}
			log.WithFields(logrus.Fields{
				"image":      img,
				"detections": len(boxes),
			}).Debug("image processed")
			return nil
		})
	}
	g.Wait()
	close(failures)
	for range failures {
		failed++
	}
	return failed, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "clashvision - Clash of Clans storage detector")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: clashvision -model MODEL.onnx [options] IMAGE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Environment variables:")
	fmt.Fprintln(os.Stderr, "  ONNXRUNTIME_SHARED_LIBRARY_PATH    Override the bundled ONNX Runtime library")
}
