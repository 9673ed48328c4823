package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret
// values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// envProvider resolves references against the process environment. The ref
// is the variable name: secretref:env:PJLINK_PASSWORD.
type envProvider struct{}

// NewEnvProvider creates a provider backed by environment variables.
func NewEnvProvider() Provider { return envProvider{} }

func (envProvider) Name() string { return "env" }

func (envProvider) Resolve(ctx context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

func (envProvider) Close() error { return nil }

// fileProvider reads the secret from a file, trimming a trailing newline.
// The ref is the path: secretref:file:/etc/projectors/boardroom.pass. A
// non-empty base directory jails relative refs beneath it.
type fileProvider struct {
	baseDir string
}

// NewFileProvider creates a provider that reads secrets from files under
// baseDir. An empty baseDir allows absolute paths.
func NewFileProvider(baseDir string) Provider {
	return &fileProvider{baseDir: baseDir}
}

func (p *fileProvider) Name() string { return "file" }

func (p *fileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	path := ref
	if p.baseDir != "" {
		path = filepath.Join(p.baseDir, filepath.Clean("/"+ref))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading secret file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (p *fileProvider) Close() error { return nil }
