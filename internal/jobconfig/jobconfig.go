package jobconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/hupe1980/geoknn"
)

// Job is the decoded content of a job file.
type Job struct {
	Input            *string `hcl:"input,optional"`
	Output           *string `hcl:"output,optional"`
	K                *int    `hcl:"k,optional"`
	Workers          *int    `hcl:"workers,optional"`
	Metric           *string `hcl:"metric,optional"`
	Format           *string `hcl:"format,optional"`
	Codec            *string `hcl:"codec,optional"`
	RejectDuplicates *bool   `hcl:"reject_duplicates,optional"`
	Schema           *Schema `hcl:"schema,block"`
}

// Schema is the optional schema block. An empty filter disables filtering.
type Schema struct {
	ID     *string `hcl:"id,optional"`
	Lon    *string `hcl:"lon,optional"`
	Lat    *string `hcl:"lat,optional"`
	Filter *string `hcl:"filter,optional"`
}

// Load reads and decodes the job file at path.
func Load(path string) (*Job, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes job file source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Job, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse job file %s: %w", geoknn.ErrInvalidInput, filename, diags)
	}

	var job Job
	diags = gohcl.DecodeBody(file.Body, EvalContext(os.Environ()), &job)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode job file %s: %w", geoknn.ErrInvalidInput, filename, diags)
	}

	return &job, nil
}

// EvalContext exposes environ ("KEY=value" pairs) as the env object.
func EvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
