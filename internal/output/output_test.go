// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// summaryRows is the row form of a synth summary.
func summaryRows() []map[string]interface{} {
	return []map[string]interface{}{
		{"type": "AWS::EC2::Subnet", "count": 2.0},
		{"type": "AWS::S3::Bucket", "count": 1.0},
		{"type": "AWS::EC2::RouteTable", "count": 2.0},
		{"type": "aws::ec2::vpc", "count": 1.0},
	}
}

var summaryColumns = []Column{
	{Key: "type", Title: "TYPE"},
	{Key: "count", Title: "COUNT"},
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []SortKey
		wantErr string
	}{
		{"empty", "", nil, ""},
		{"blank", "  ", nil, ""},
		{"by key", "type", []SortKey{{Key: "type"}}, ""},
		{"by title", "COUNT", []SortKey{{Key: "count"}}, ""},
		{"descending exact", "-!type", []SortKey{{Key: "type", Descending: true, Exact: true}}, ""},
		{"several", "-count, type", []SortKey{{Key: "count", Descending: true}, {Key: "type"}}, ""},
		{"unknown", "value", nil, `invalid --sort key "value": must be one of [type count]`},
		{"empty term", "type,", nil, `invalid --sort key ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.value, summaryColumns)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortRows(t *testing.T) {
	types := func(rows []map[string]interface{}) []string {
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, row["type"].(string))
		}
		return out
	}

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unsorted keeps order", "", []string{"AWS::EC2::Subnet", "AWS::S3::Bucket", "AWS::EC2::RouteTable", "aws::ec2::vpc"}},
		{"type ignores case", "type", []string{"AWS::EC2::RouteTable", "AWS::EC2::Subnet", "aws::ec2::vpc", "AWS::S3::Bucket"}},
		{"type exact", "!type", []string{"AWS::EC2::RouteTable", "AWS::EC2::Subnet", "AWS::S3::Bucket", "aws::ec2::vpc"}},
		{"count is numeric and stable", "-count", []string{"AWS::EC2::Subnet", "AWS::EC2::RouteTable", "AWS::S3::Bucket", "aws::ec2::vpc"}},
		{"count then type descending", "count,-type", []string{"AWS::S3::Bucket", "aws::ec2::vpc", "AWS::EC2::Subnet", "AWS::EC2::RouteTable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := ParseSort(tt.value, summaryColumns)
			require.NoError(t, err)
			rows := summaryRows()
			SortRows(rows, keys)
			assert.Equal(t, tt.want, types(rows))
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{"output value", "arn:aws:s3:::my-existing-bucket", "", "arn:aws:s3:::my-existing-bucket"},
		{"int count", 13, "", "13"},
		{"float count from JSON", 2.0, "", "2"},
		{"resolved flag", true, "", "true"},
		{"unresolved flag is empty", false, "", ""},
		{"missing description", nil, "", ""},
		{"missing description with dash", nil, "-", "-"},
		{"empty value with dash", "", "-", "-"},
		{"condition args", []string{"", "my-existing-bucket"}, "", `["","my-existing-bucket"]`},
		{"intrinsic", map[string]string{"Ref": "S3Bucket"}, "", `{"Ref":"S3Bucket"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

type entry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

var entries = []entry{
	{Name: "AWS::EC2::Subnet", Count: 2},
	{Name: "AWS::EC2::VPC", Count: 1},
	{Name: "AWS::EC2::EIP", Count: 1},
}

var columns = []Column{
	{Key: "name", Title: "TYPE"},
	{Key: "count"},
}

// run drives fn through a real command so flag values are parsed the way
// they are at runtime.
func run(t *testing.T, args []string, fn func(*cli.Command) error) {
	t.Helper()
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return fn(cmd)
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
}

func TestSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	run(t, []string{"--output", "json"}, func(cmd *cli.Command) error {
		return Spit(entries, columns, cmd, &buf, nil)
	})

	assert.JSONEq(t, `[
		{"name": "AWS::EC2::Subnet", "count": 2},
		{"name": "AWS::EC2::VPC", "count": 1},
		{"name": "AWS::EC2::EIP", "count": 1}
	]`, buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	run(t, []string{"--output", "yaml"}, func(cmd *cli.Command) error {
		return Spit(entries, columns, cmd, &buf, nil)
	})

	var got []entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, entries, got)
}

func TestSpit_Text(t *testing.T) {
	var buf bytes.Buffer
	run(t, []string{"--sort", "name", "--titles"}, func(cmd *cli.Command) error {
		return Spit(entries, columns, cmd, &buf, nil)
	})

	out := buf.String()
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "count")

	// Sorted by name.
	eip := strings.Index(out, "AWS::EC2::EIP")
	subnet := strings.Index(out, "AWS::EC2::Subnet")
	vpc := strings.Index(out, "AWS::EC2::VPC")
	require.True(t, eip >= 0 && subnet >= 0 && vpc >= 0, out)
	assert.Less(t, eip, subnet)
	assert.Less(t, subnet, vpc)
}

func TestSpit_UnknownSortKey(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			var err error
			run(t, []string{"--output", format, "--sort", "size"}, func(cmd *cli.Command) error {
				err = Spit(entries, columns, cmd, &buf, nil)
				return nil
			})
			assert.ErrorContains(t, err, `invalid --sort key "size": must be one of [name count]`)
			assert.Empty(t, buf.String())
		})
	}
}

func TestSpit_PostProcess(t *testing.T) {
	var buf bytes.Buffer
	run(t, nil, func(cmd *cli.Command) error {
		return Spit(entries, columns, cmd, &buf, func(rows []map[string]interface{}) error {
			for _, row := range rows {
				row["name"] = strings.TrimPrefix(row["name"].(string), "AWS::EC2::")
			}
			return nil
		})
	})

	assert.Contains(t, buf.String(), "Subnet")
	assert.NotContains(t, buf.String(), "AWS::")
}

func TestTableWriter(t *testing.T) {
	t.Run("empty result set writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		run(t, nil, func(cmd *cli.Command) error {
			TableWriter(nil, columns, cmd, &buf)
			return nil
		})
		assert.Empty(t, buf.String())
	})

	t.Run("missing values become dashes", func(t *testing.T) {
		var buf bytes.Buffer
		run(t, nil, func(cmd *cli.Command) error {
			TableWriter([]map[string]interface{}{{"name": "only"}}, columns, cmd, &buf)
			return nil
		})
		assert.Contains(t, buf.String(), "only")
		assert.Contains(t, buf.String(), "-")
	})

	t.Run("header and footer", func(t *testing.T) {
		var buf bytes.Buffer
		run(t, nil, func(cmd *cli.Command) error {
			cmd.Metadata = map[string]interface{}{"header": "Resources", "footer": "3 types"}
			TableWriter([]map[string]interface{}{{"name": "x", "count": 1.0}}, columns, cmd, &buf)
			return nil
		})
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Contains(t, lines[0], "Resources")
		assert.Contains(t, lines[len(lines)-1], "3 types")
	})
}

func TestRows(t *testing.T) {
	rows := Rows([]byte(`[{"a": 1}, "skip", {"b": "two"}]`))
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0]["a"])
	assert.Equal(t, "two", rows[1]["b"])

	assert.Empty(t, Rows([]byte(`{"not": "an array"}`)))
	assert.Empty(t, Rows([]byte(`null`)))
	assert.Empty(t, Rows([]byte(`[]`)))
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}
