package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adzetto/ADAS-LITE/internal/config"
	"github.com/adzetto/ADAS-LITE/internal/detect"
	"github.com/adzetto/ADAS-LITE/internal/model"
	"github.com/adzetto/ADAS-LITE/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "detect":
		runDetect(os.Args[2:])
	case "batch":
		runBatch(os.Args[2:])
	case "usage":
		printUsage()
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func runDetect(args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	modelPath := fs.String("m", cfg.ModelPath, "Path to ONNX model")
	confidence := fs.Float64("c", cfg.ConfidenceThreshold, "Confidence threshold")
	output := fs.String("o", "", "Output JSON file")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("Usage: gtsrb detect [-m model] [-c confidence] [-o out.json] <image>")
	}
	imagePath := fs.Arg(0)

	if _, err := os.Stat(imagePath); err != nil {
		log.Fatalf("Image file does not exist: %s", imagePath)
	}

	detector, handle := newDetector(*modelPath, *confidence, 1)
	defer handle.Close()

	fmt.Printf("🔍 Analyzing image: %s\n", filepath.Base(imagePath))

	result := detector.Detect(context.Background(), imagePath)
	printResult(result, *confidence)

	if *output != "" {
		if err := saveJSON(result, *output); err != nil {
			log.Fatalf("Failed to save results: %v", err)
		}
		fmt.Printf("💾 Results saved to: %s\n", *output)
	}
}

func runBatch(args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	modelPath := fs.String("m", cfg.ModelPath, "Path to ONNX model")
	confidence := fs.Float64("c", cfg.ConfidenceThreshold, "Confidence threshold")
	output := fs.String("o", "output/batch_results.json", "Output JSON file")
	workers := fs.Int("workers", cfg.Workers, "Images processed concurrently")
	fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("Usage: gtsrb batch [-m model] [-c confidence] [-o out.json] [-workers n] <directory>")
	}
	dir := fs.Arg(0)

	paths, err := scanImages(dir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", dir, err)
	}
	if len(paths) == 0 {
		log.Fatalf("No image files found in %s", dir)
	}

	fmt.Println("🚀 GTSRB Traffic Sign Detection - Batch Processing")
	fmt.Printf("📁 Input directory: %s\n", dir)
	fmt.Printf("📄 Output file: %s\n", *output)
	fmt.Printf("🎯 Confidence threshold: %v\n", *confidence)
	fmt.Printf("📸 Found %d images to process\n", len(paths))

	detector, handle := newDetector(*modelPath, *confidence, *workers)
	defer handle.Close()

	results := detector.DetectBatch(context.Background(), paths)
	rep := report.Aggregate(results)

	if err := rep.Save(*output); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	s := rep.DetectionSummary
	fmt.Println("\n✅ Batch processing completed!")
	fmt.Printf("📊 Summary: %d/%d successful detections (%.2f%%)\n",
		s.SuccessfulDetections, s.TotalImages, s.SuccessRate)
	fmt.Printf("⏱️  Average inference time: %.2fms\n", s.AverageInferenceTimeMS)
	fmt.Printf("💾 Results saved to: %s\n", *output)
}

func newDetector(modelPath string, confidence float64, workers int) (*detect.Detector, *model.Model) {
	log.Printf("Loading model from: %s", modelPath)

	handle, err := model.Load(modelPath, detect.NumClasses)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	detector, err := detect.New(handle, confidence, detect.WithWorkers(workers))
	if err != nil {
		handle.Close()
		log.Fatalf("Failed to initialize detector: %v", err)
	}
	return detector, handle
}

func printResult(r detect.Result, threshold float64) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("DETECTION RESULTS")
	fmt.Println(strings.Repeat("=", 50))

	if r.Detected {
		fmt.Printf("✅ DETECTED: %s\n", r.Primary.Label)
		fmt.Printf("🎯 Confidence: %.4f\n", r.Primary.Confidence)
		fmt.Printf("🏷️  Class ID: %d\n", r.Primary.ClassID)
		fmt.Printf("⏱️  Inference Time: %.2fms\n", r.InferenceTimeMS)

		if len(r.TopPredictions) > 1 {
			fmt.Println("\n📋 Top Predictions:")
			for i, p := range r.TopPredictions {
				fmt.Printf("  %d. %s (%.4f)\n", i+1, p.Label, p.Confidence)
			}
		}
	} else {
		fmt.Println("❌ NO TRAFFIC SIGN DETECTED")
		if r.Error != "" {
			fmt.Printf("💥 Error: %s\n", r.Error)
		} else {
			fmt.Printf("🎯 Maximum confidence was below threshold (%v)\n", threshold)
		}
	}

	fmt.Println(strings.Repeat("=", 50))
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// scanImages lists the supported image files directly under dir, sorted for
// a stable batch order.
func scanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func saveJSON(v any, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printHelp() {
	fmt.Println("GTSRB Traffic Sign Detection")
	fmt.Println()
	fmt.Println("Usage: gtsrb <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  detect <image>     Detect a single image")
	fmt.Println("  batch <directory>  Batch process a directory")
	fmt.Println("  usage              Show the usage guide")
	fmt.Println()
	fmt.Println("Run 'gtsrb usage' for examples.")
}

func printUsage() {
	fmt.Println("🚀 GTSRB Traffic Sign Detection")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
	fmt.Println("📋 Available Commands:")
	fmt.Println()
	fmt.Println("1️⃣  Detect a single image:")
	fmt.Println("   gtsrb detect test_images/00000.png")
	fmt.Println("   gtsrb detect image.jpg -o result.json")
	fmt.Println("   gtsrb detect image.jpg -c 0.5   # confidence threshold")
	fmt.Println()
	fmt.Println("2️⃣  Batch process a directory:")
	fmt.Println("   gtsrb batch test_images/")
	fmt.Println("   gtsrb batch my_images/ -o my_results.json")
	fmt.Println("   gtsrb batch images/ -c 0.4 -workers 4")
	fmt.Println()
	fmt.Println("⚙️  Configuration (flags override environment):")
	fmt.Println("   GTSRB_MODEL_PATH             path to the ONNX model")
	fmt.Println("   GTSRB_CONFIDENCE_THRESHOLD   threshold in [0,1], default 0.3")
	fmt.Println("   GTSRB_WORKERS                batch concurrency, default 1")
	fmt.Println()
	fmt.Println("🖼️  Supported image formats: PNG, JPG/JPEG, BMP, TIFF")
	fmt.Println()
	fmt.Println("📊 JSON Output Format:")
	fmt.Println("   {")
	fmt.Println(`     "image_path": "test_images/00000.png",`)
	fmt.Println(`     "detected": true,`)
	fmt.Println(`     "primary_detection": {`)
	fmt.Println(`       "class_id": 14,`)
	fmt.Println(`       "label": "Stop",`)
	fmt.Println(`       "confidence": 0.9876`)
	fmt.Println(`     },`)
	fmt.Println(`     "top_predictions": [...],`)
	fmt.Println(`     "model_info": {...}`)
	fmt.Println("   }")
}
