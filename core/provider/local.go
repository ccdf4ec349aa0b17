package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/retriever/helper"
)

// LocalEmbedderDimensions is the output size of the all-MiniLM-L6-v2 model
const LocalEmbedderDimensions = 384

// LocalEmbedder runs a sentence transformer model locally via hugot.
// No network call happens at embedding time, only for the initial
// model download.
type LocalEmbedder struct {
	embed   func(text string) ([]float32, error)
	session *hugot.Session
}

// NewLocalEmbedder creates an embedder using the all-MiniLM-L6-v2 model,
// downloading it to ./models on first use
func NewLocalEmbedder() (*LocalEmbedder, error) {
	modelPath, err := prepareModel("sentence-transformers/all-MiniLM-L6-v2")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, helper.NewError("create hugot session", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, helper.NewError("create sentence pipeline", fmt.Errorf("%w (cleanup error: %v)", err, destroyErr))
		}
		return nil, helper.NewError("create sentence pipeline", err)
	}

	embed := func(text string) ([]float32, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, helper.NewError("generate embedding", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, helper.NewError("generate embedding", fmt.Errorf("no embedding generated"))
		}
		return result.Embeddings[0], nil
	}

	return &LocalEmbedder{
		embed:   embed,
		session: session,
	}, nil
}

// Embed generates an embedding for the given text
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text)
}

// Dimensions returns the embedding dimensionality of the model
func (e *LocalEmbedder) Dimensions() int {
	return LocalEmbedderDimensions
}

// Close releases the underlying hugot session
func (e *LocalEmbedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}

// prepareModel downloads the model if it doesn't exist and returns the model path
func prepareModel(modelName string) (string, error) {
	modelDir := "./models"
	modelPath := filepath.Join(modelDir, "sentence-transformers_all-MiniLM-L6-v2")

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return "", helper.NewError("create model directory", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = "onnx/model.onnx"
		downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
		if err != nil {
			return "", helper.NewError("download model", err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}
