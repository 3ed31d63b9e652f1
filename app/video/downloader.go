package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// user-visible failure messages
const (
	MsgFailed   = "yt-dlp упал :("
	MsgNoOutput = "yt-dlp вернул пустой output :("
	MsgTooBig   = "Слишком жирное видео, не по шансам :("
)

// Error is a download failure with a message safe to show in chat
type Error struct {
	Message string // short user-visible message
	Err     error  // details for logs
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Downloader runs external downloader process to fetch videos into temp files
type Downloader struct {
	Config
	sem *semaphore.Weighted
}

// Config defines downloader parameters
type Config struct {
	Binary    string        // downloader executable, default yt-dlp
	Cookies   string        // optional cookies file passed to the downloader
	MaxSizeMb int           // max size of the resulting file, default 20
	TmpDir    string        // directory for output files, default os temp dir
	Timeout   time.Duration // per-download timeout, default 5m
	Workers   int           // max concurrent downloads, default 2
}

// NewDownloader makes a downloader with defaults applied
func NewDownloader(cfg Config) *Downloader {
	if cfg.Binary == "" {
		cfg.Binary = "yt-dlp"
	}
	if cfg.MaxSizeMb <= 0 {
		cfg.MaxSizeMb = 20
	}
	if cfg.TmpDir == "" {
		cfg.TmpDir = os.TempDir()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	return &Downloader{Config: cfg, sem: semaphore.NewWeighted(int64(cfg.Workers))}
}

// Download fetches the video to a new temp file and returns its path. The caller owns the file.
// Failures visible to users are returned as *Error, nothing is left on disk in this case.
func (d *Downloader) Download(ctx context.Context, link Link) (string, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("download of %s not started: %w", link, err)
	}
	defer d.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	output := filepath.Join(d.TmpDir, uuid.NewString()+".mp4")
	args := d.args(link, output)
	log.Printf("[INFO] downloading %s to %s", link, output)
	log.Printf("[DEBUG] %s %s", d.Binary, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Binary, args...)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	cmd.WaitDelay = time.Second
	err := cmd.Run()

	log.Printf("[DEBUG] %s stdout: %s", d.Binary, strings.TrimSpace(stdout.String()))
	if s := strings.TrimSpace(stderr.String()); s != "" {
		log.Printf("[WARN] %s stderr: %s", d.Binary, s)
	}

	if err != nil {
		d.cleanup(output)
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("download of %s canceled: %w", link, ctx.Err())
		}
		return "", &Error{Message: MsgFailed, Err: fmt.Errorf("%s failed for %s: %w", d.Binary, link, err)}
	}

	fi, err := os.Stat(output)
	if err != nil {
		d.cleanup(output)
		return "", &Error{Message: MsgNoOutput, Err: fmt.Errorf("no output for %s: %w", link, err)}
	}

	if maxSize := int64(d.MaxSizeMb) * 1024 * 1024; fi.Size() > maxSize {
		d.cleanup(output)
		return "", &Error{Message: MsgTooBig, Err: fmt.Errorf("file of %s is %d bytes, max %d", link, fi.Size(), maxSize)}
	}

	log.Printf("[INFO] downloaded %s to %s, %d bytes", link, output, fi.Size())
	return output, nil
}

// args makes downloader arguments for the platform, url goes last after "--"
func (d *Downloader) args(link Link, output string) []string {
	size := fmt.Sprintf("[filesize_approx<=%dM]", d.MaxSizeMb)
	var res []string
	switch link.Platform {
	case YouTube:
		res = []string{
			"-f", "bv*[vcodec^=avc1]" + size + "+ba[acodec^=mp4a]/bv*[vcodec^=avc1]" + size + "+ba/bv*" + size + "+ba/b",
			"--merge-output-format", "mp4",
			"--no-playlist",
			"--recode-video", "mp4",
			"--postprocessor-args", "FFmpegVideoConvertor:-vf scale=trunc(iw/2)*2:trunc(ih/2)*2",
		}
	case TikTok:
		res = []string{
			"-f", "bv*" + size + "/bv*+ba/b",
			"--merge-output-format", "mp4",
			"--no-playlist",
			"--remux-video", "mp4",
		}
	default:
		res = []string{"-f", "mp4", "--no-playlist"}
	}
	res = append(res, "--remote-components", "ejs:npm")
	if d.Cookies != "" {
		res = append(res, "--cookies", d.Cookies)
	}
	return append(res, "-o", output, "--", link.URL)
}

// cleanup removes the output and partial files downloader may leave next to it
func (d *Downloader) cleanup(output string) {
	dir, name := filepath.Split(output)
	prefix := strings.TrimSuffix(name, ".mp4")
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[WARN] can't list partial files for %s: %v", output, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] can't remove %s: %v", e.Name(), err)
		}
	}
}
