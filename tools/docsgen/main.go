// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen writes a markdown page and a man page per subcommand. Flags come
// from the live command tree; examples and notes come from
// <docs>/examples.yaml when present.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/cromwell-infra/internal/command"
)

type Extras struct {
	Subcommands map[string]Extra `yaml:"subcommands"`
}

type Extra struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Subcommand struct {
	ID    string
	Short string
	Usage string
	Flags []Flag
	Extra
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
	Env         []string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
	IDUpper string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

const markdownTemplate = `# cromwell-infra {{ .ID }}

{{ .Short }}

` + "```" + `
{{ .Usage }}
` + "```" + `
{{ if .Description }}
{{ .Description }}
{{ end }}
## Flags

| Flag | Description | Default | Env |
| ---- | ----------- | ------- | --- |
{{- range .Flags }}
| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} | {{ join .Env ", " }} |
{{- end }}
{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}{{ end }}{{ if .Notes }}
## Notes
{{ range .Notes }}
- {{ . }}
{{- end }}
{{ end }}
_Generated {{ .Date }} for {{ .Version }}._
`

const manTemplate = `.TH CROMWELL-INFRA-{{ .IDUpper }} 1 "{{ .Date }}" "{{ .Version }}"
.SH NAME
cromwell-infra-{{ .ID }} \- {{ .Short }}
.SH SYNOPSIS
{{ .Usage }}
{{- if .Description }}
.SH DESCRIPTION
{{ .Description }}
{{- end }}
.SH OPTIONS
{{- range .Flags }}
.TP
\fB{{ .Syntax }}\fR
{{ .Description }}{{ if .Default }} (default {{ .Default }}){{ end }}
{{- end }}
{{- if .Examples }}
.SH EXAMPLES
{{- range .Examples }}
.TP
{{ .Command }}
{{ .Description }}
{{- end }}
{{- end }}
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs-dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	extras, err := loadExtras(filepath.Join(docs, "examples.yaml"))
	if err != nil {
		panic(err)
	}

	app, err := command.InitApp(context.Background(), []string{"cromwell-infra"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: markdownTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTemplate, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "cromwell-infra-", Suffix: ".1"},
	}

	version := getVersion()
	for _, sub := range subcommands(app, extras) {
		metadata := TemplateData{
			Subcommand: sub,
			Date:       time.Now().Format("January 2, 2006"),
			Version:    version,
			IDUpper:    strings.ToUpper(sub.ID),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.ID+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			if err := render(file, t.Template, metadata); err != nil {
				panic(err)
			}
			file.Close()
		}
	}
}

// loadExtras reads the hand written parts of the docs. A missing file yields
// no extras.
func loadExtras(path string) (Extras, error) {
	var extras Extras
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return extras, nil
	} else if err != nil {
		return extras, err
	}
	if err := yaml.Unmarshal(data, &extras); err != nil {
		return extras, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return extras, nil
}

// subcommands flattens the command tree into template input, flags sorted by
// name.
func subcommands(app *cli.Command, extras Extras) []Subcommand {
	var subs []Subcommand
	for _, cmd := range app.Commands {
		sub := Subcommand{
			ID:    cmd.Name,
			Short: cmd.Usage,
			Usage: cmd.UsageText,
			Extra: extras.Subcommands[cmd.Name],
		}

		for _, f := range cmd.Flags {
			sub.Flags = append(sub.Flags, describeFlag(f))
		}
		sort.Slice(sub.Flags, func(i, j int) bool {
			return sub.Flags[i].ID < sub.Flags[j].ID
		})

		subs = append(subs, sub)
	}
	return subs
}

func describeFlag(f cli.Flag) Flag {
	names := f.Names()
	flag := Flag{ID: names[0]}

	var syntax []string
	for _, n := range names {
		if len(n) == 1 {
			syntax = append(syntax, "-"+n)
		} else {
			syntax = append(syntax, "--"+n)
		}
	}
	flag.Syntax = strings.Join(syntax, ", ")

	if df, ok := f.(cli.DocGenerationFlag); ok {
		flag.Description = df.GetUsage()
		flag.Env = df.GetEnvVars()
		if df.TakesValue() {
			flag.Default = df.GetValue()
		}
	}
	return flag
}

func render(w io.Writer, text string, data TemplateData) error {
	tmpl, err := template.New(data.ID).Funcs(template.FuncMap{"join": strings.Join}).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
