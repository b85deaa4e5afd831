package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/textproc"
)

// FileOptions carries optional overrides for file ingestion.
type FileOptions struct {
	// Title overrides the title derived from the filename.
	Title string
	// Type overrides extension-based type detection.
	Type core.NodeType
	// Tags are appended to the automatically derived tags.
	Tags []string
	// Metadata is attached to the node. Derived keys are ignored.
	Metadata map[string]string
}

// IngestFile reads a file, extracts its text, derives title, type, and
// tags, and creates a node from it. Text extraction never fails; unknown
// extensions ingest as notes.
func (p *Pipeline) IngestFile(ctx context.Context, path string, opts *FileOptions) (*Result, error) {
	if opts == nil {
		opts = &FileOptions{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	filename := filepath.Base(path)
	nodeType := opts.Type
	if nodeType == 0 {
		nodeType = textproc.DetectNodeType(filename)
	}

	record := &core.NodeRecord{
		Title:    textproc.DeriveTitle(filename, opts.Title, time.Now()),
		Content:  textproc.ExtractText(data),
		Type:     nodeType,
		Tags:     append(textproc.AutoTags(filename), opts.Tags...),
		Metadata: opts.Metadata,
	}
	if record.Metadata == nil {
		record.Metadata = make(map[string]string)
	}
	record.Metadata["source_file"] = filename

	return p.CreateNode(ctx, record)
}

// FileResult pairs a path with its ingestion outcome.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// IngestFiles ingests multiple files concurrently on the pipeline's worker
// pool. Results are returned in input order; per-file failures are recorded
// in the corresponding FileResult, not returned as an error.
func (p *Pipeline) IngestFiles(ctx context.Context, paths []string, opts *FileOptions) []FileResult {
	results := make([]FileResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		submitErr := p.filePool.Submit(func() {
			defer wg.Done()
			res, err := p.IngestFile(ctx, path, opts)
			results[i] = FileResult{Path: path, Result: res, Err: err}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = FileResult{Path: path, Err: submitErr}
		}
	}
	wg.Wait()

	return results
}
