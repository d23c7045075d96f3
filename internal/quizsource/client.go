// Package quizsource fetches quiz datasets published over HTTP.
package quizsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
)

// maxDatasetBytes bounds the response body read from a remote source.
const maxDatasetBytes = 4 << 20

type Client struct {
	httpClient *http.Client
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// IsRemote reports whether location should be fetched over HTTP rather than
// read from disk.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FetchDataset downloads and validates the dataset at url.
func (c *Client) FetchDataset(ctx context.Context, url string) ([]models.Quiz, error) {
	log := logger.FromContext(ctx).WithPrefix("quizsource").WithField("url", url)

	log.Debug("fetching dataset")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch dataset: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("dataset response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("dataset request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("dataset status %d: %s", resp.StatusCode, string(body))
	}

	quizzes, err := quiz.ReadDataset(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		log.Error("invalid dataset: %v", err)
		return nil, err
	}

	log.Info("fetched %d quizzes", len(quizzes))
	return quizzes, nil
}

// Load reads the dataset from location: a URL, a file path, or empty for the
// bundled quizzes.
func (c *Client) Load(ctx context.Context, location string) ([]models.Quiz, error) {
	if IsRemote(location) {
		return c.FetchDataset(ctx, location)
	}
	return quiz.LoadDataset(location)
}
