// Package youtube wraps yt-dlp through go-ytdlp for search and download.
// Format selection, extraction and network handling all stay inside yt-dlp.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vytor/rebux/internal/logger"
	"github.com/vytor/rebux/internal/models"
)

// SearchLimit is the default number of search results ("ytsearch10:").
const SearchLimit = 10

// ErrNoOutput means yt-dlp exited cleanly without reporting a file.
var ErrNoOutput = errors.New("yt-dlp produced no output file")

// Runner executes a built command with its positional arguments and returns stdout.
type Runner func(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error)

func runCommand(ctx context.Context, cmd *ytdlp.Command, args ...string) (string, error) {
	res, err := cmd.Run(ctx, args...)
	if err != nil {
		if res != nil {
			msg := strings.TrimSpace(res.Stderr)
			if len(msg) > 512 {
				msg = msg[len(msg)-512:]
			}
			return "", fmt.Errorf("yt-dlp: %w: %s", err, msg)
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	return res.Stdout, nil
}

type Client struct {
	binary      string
	downloadDir string
	run         Runner
	log         *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces command execution, used by tests.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.run = r }
}

func New(binary, downloadDir string, opts ...Option) *Client {
	c := &Client{
		binary:      binary,
		downloadDir: downloadDir,
		run:         runCommand,
		log:         logger.Default().WithPrefix("youtube"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New().Quiet().NoWarnings()
	if c.binary != "" {
		cmd = cmd.SetExecutable(c.binary)
	}
	return cmd
}

type flatEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
}

type flatPlaylist struct {
	Entries []flatEntry `json:"entries"`
}

// Search returns up to limit flat results for query without downloading anything.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.VideoResult, error) {
	log := logger.FromContext(ctx).WithPrefix("youtube").WithField("query", query)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty search query")
	}
	if limit <= 0 {
		limit = SearchLimit
	}

	cmd := c.command().FlatPlaylist().SkipDownload().DumpSingleJSON()
	out, err := c.run(ctx, cmd, "--", "ytsearch"+strconv.Itoa(limit)+":"+query)
	if err != nil {
		log.Error("search failed: %v", err)
		return nil, err
	}

	var playlist flatPlaylist
	if err := json.Unmarshal([]byte(out), &playlist); err != nil {
		log.Error("failed to decode yt-dlp output: %v", err)
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	results := make([]models.VideoResult, 0, len(playlist.Entries))
	for _, e := range playlist.Entries {
		u := e.URL
		if u == "" {
			u = e.WebpageURL
		}
		if u == "" && e.ID != "" {
			u = "https://www.youtube.com/watch?v=" + e.ID
		}
		channel := e.Channel
		if channel == "" {
			channel = e.Uploader
		}
		results = append(results, models.VideoResult{
			ID:       e.ID,
			Title:    e.Title,
			URL:      u,
			Channel:  channel,
			Duration: e.Duration,
		})
	}
	log.Info("found %d videos", len(results))
	return results, nil
}

// Download fetches target (a URL or a "ytsearch1:" expression) into the
// download directory and returns the final file path. target always follows
// "--" so yt-dlp never reads it as an option.
func (c *Client) Download(ctx context.Context, target string, format string) (*models.DownloadedFile, error) {
	log := logger.FromContext(ctx).WithPrefix("youtube").WithField("target", target)
	if strings.TrimSpace(target) == "" {
		return nil, errors.New("empty download target")
	}
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	cmd := c.command().
		NoPlaylist().
		Output(filepath.Join(c.downloadDir, "%(title)s.%(ext)s")).
		Print("after_move:filepath")
	if format != "" {
		cmd = cmd.Format(format)
	}

	log.Info("starting download")
	out, err := c.run(ctx, cmd, "--", target)
	if err != nil {
		log.Error("download failed: %v", err)
		return nil, err
	}

	path := lastLine(out)
	if path == "" {
		return nil, ErrNoOutput
	}
	log.Info("download finished: %s", path)
	return &models.DownloadedFile{Path: path, Filename: filepath.Base(path)}, nil
}

// SearchTarget turns a free-text title into a single-result search expression.
func SearchTarget(title string) string {
	return "ytsearch1:" + strings.TrimSpace(title)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
