package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/DmitryKokorin/grantlee/engine"
)

type (
	contextKey struct{}
	engineKey  struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// WithEngine returns a new context.Context carrying the engine commands
// render with.
func WithEngine(ctx context.Context, e *engine.Engine) context.Context {
	return context.WithValue(ctx, engineKey{}, e)
}

func engineFrom(ctx context.Context) (*engine.Engine, error) {
	e, ok := ctx.Value(engineKey{}).(*engine.Engine)
	if !ok || e == nil {
		return nil, ErrNoEngine
	}

	return e, nil
}

// stdinSource names standard input in a list of data files.
const stdinSource = "-"

// fileKey identifies a file by device and inode so that one file reached
// through different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// loadData decodes each YAML file in paths into one render context. Keys in
// later files replace those in earlier ones. Duplicate paths are read once
// and "-" reads standard input after every named file.
func loadData(paths []string) (map[string]any, error) {
	data := make(map[string]any)
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	readStdin := false

	for _, path := range paths {
		if path == stdinSource {
			readStdin = true

			continue
		}

		file, key, err := openUnique(path, seen)
		if err != nil {
			return nil, ErrReadData.Wrap(err).With(slog.String("file", path))
		}

		if file == nil {
			continue
		}

		if hasStdinKey && key == stdinKey {
			readStdin = true

			file.Close()

			continue
		}

		derr := decodeInto(data, file)
		file.Close()

		if derr != nil {
			return nil, derr.With(slog.String("file", path))
		}
	}

	if readStdin {
		if err := decodeInto(data, os.Stdin); err != nil {
			return nil, err.With(slog.String("file", stdinSource))
		}
	}

	return data, nil
}

// openUnique opens path unless a file with the same identity is in seen.
// A nil file with a nil error reports a duplicate.
func openUnique(path string, seen map[fileKey]struct{}) (*os.File, fileKey, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, dup := seen[key]; dup {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// decodeInto merges every YAML document in r into data.
func decodeInto(data map[string]any, r io.Reader) *Error {
	src, err := io.ReadAll(r)
	if err != nil {
		return ErrReadData.Wrap(err)
	}

	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(src))

	for {
		var doc map[string]any

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return ErrDecodeData.Wrap(err)
		}

		maps.Copy(data, doc)
	}
}
