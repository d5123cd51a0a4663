// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/cromwell-infra/internal/log"
	"github.com/tfctl/cromwell-infra/internal/stack"
)

// Formats accepted by Render.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options controls a synthesis run.
type Options struct {
	// StackID defaults to stack.DefaultStackID.
	StackID string
	Props   stack.Props
	// Context is handed to the CDK app as-is.
	Context map[string]interface{}
	// Outdir receives the cloud assembly. Empty uses a temporary directory
	// that is removed afterwards.
	Outdir string
	// Format defaults to FormatJSON.
	Format string
}

// ResourceCount is the number of resources of one CloudFormation type.
type ResourceCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// Result is a synthesized and rendered template.
type Result struct {
	StackID  string
	Format   string
	Template []byte
	Document map[string]interface{}
	Summary  []ResourceCount
}

// Size returns the rendered template size in human form.
func (r *Result) Size() string {
	return humanize.Bytes(uint64(len(r.Template)))
}

func (o *Options) applyDefaults() {
	if o.StackID == "" {
		o.StackID = stack.DefaultStackID
	}
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.Props.BucketName == "" {
		o.Props.BucketName = contextString(o.Context[stack.BucketNameContextKey])
	}
}

// contextString reads a string context value. The CDK toolkit hands "true"
// and "false" over as booleans, and both are valid bucket names.
func contextString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// ValidateFormat returns an error unless format is json or yaml.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unsupported format %q: must be one of [%s %s]", format, FormatJSON, FormatYAML)
}

// NewApp returns a CDK app with analytics reporting off and the given
// context and outdir.
func NewApp(context map[string]interface{}, outdir string) awscdk.App {
	props := &awscdk.AppProps{
		AnalyticsReporting: jsii.Bool(false),
	}
	if len(context) > 0 {
		c := maps.Clone(context)
		props.Context = &c
	}
	if outdir != "" {
		props.Outdir = jsii.String(outdir)
	}
	return awscdk.NewApp(props)
}

// Synthesize builds the stack, synthesizes it and renders the template.
func Synthesize(opts Options) (res *Result, err error) {
	opts.applyDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	outdir := opts.Outdir
	if outdir == "" {
		tmp, err := os.MkdirTemp("", "cromwell-infra-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create assembly dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		outdir = tmp
	}

	// jsii surfaces construct errors as panics.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("synthesis of %s failed: %v", opts.StackID, r)
		}
	}()

	app := NewApp(opts.Context, outdir)
	s, err := stack.NewGenomicsWorkflowStack(app, opts.StackID, opts.Props)
	if err != nil {
		return nil, err
	}

	assembly := app.Synth(nil)
	artifact := assembly.GetStackArtifact(s.ArtifactId())
	doc, ok := artifact.Template().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("stack %s produced no template", opts.StackID)
	}
	log.Debugf("assembly synthesized: dir=%s", *assembly.Directory())

	rendered, err := Render(doc, opts.Format)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(doc)
	if err != nil {
		return nil, err
	}

	res = &Result{
		StackID:  opts.StackID,
		Format:   opts.Format,
		Template: rendered,
		Document: doc,
		Summary:  summary,
	}
	log.Infof("template rendered: stack=%s format=%s size=%s", res.StackID, res.Format, res.Size())
	return res, nil
}

// Render encodes doc as indented JSON or YAML with sorted keys and a trailing
// newline.
func Render(doc map[string]interface{}, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal template: %w", err)
		}
		return append(b, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal template: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, ValidateFormat(format)
}

// Summarize counts resources by type, sorted by type.
func Summarize(doc map[string]interface{}) ([]ResourceCount, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	return SummarizeJSON(raw), nil
}

// SummarizeJSON counts resources by type in a JSON template.
func SummarizeJSON(template []byte) []ResourceCount {
	counts := map[string]int{}
	gjson.GetBytes(template, "Resources").ForEach(func(_, resource gjson.Result) bool {
		counts[resource.Get("Type").String()]++
		return true
	})

	summary := make([]ResourceCount, 0, len(counts))
	for typ, n := range counts {
		summary = append(summary, ResourceCount{Type: typ, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Type < summary[j].Type })
	return summary
}

// ParseContext turns key=value pairs into CDK context. "true" and "false"
// become booleans so feature flags behave as they do under the CDK toolkit.
// The bucket name is always kept a string.
func ParseContext(pairs []string) (map[string]interface{}, error) {
	context := map[string]interface{}{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid context %q: expected key=value", pair)
		}
		switch {
		case key == stack.BucketNameContextKey:
			context[key] = value
		case value == "true":
			context[key] = true
		case value == "false":
			context[key] = false
		default:
			context[key] = value
		}
	}
	return context, nil
}
