// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/cromwell-infra/internal/meta"
)

const bashCompletionScript = `# bash completion for cromwell-infra
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_cromwell_infra()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "synth outputs diff preflight completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local stack="--bucket-name -b --region -r --stack-name --context -c"
    local table="--color --padding --sort -s --titles -t"

    case "$cmd" in
        synth)
            local opts="$stack $table --format -f --out --summary"
            ;;
        outputs)
            local opts="$stack $table --output -o"
            ;;
        diff)
            local opts="$stack --against -a --color --exit-code --ignore --pick"
            ;;
        preflight)
            local opts="$stack --endpoint-url --profile -p --strict"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$stack"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --format|-f)
            COMPREPLY=( $(compgen -W "json yaml" -- "$cur") )
            return 0
            ;;
        --out|--against|-a)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _cromwell_infra cromwell-infra
`

const zshCompletionScript = `#compdef cromwell-infra

_cromwell_infra() {
  local -a cmds
  cmds=(
    'synth:synthesize the CloudFormation template'
    'outputs:preview the stack outputs'
    'diff:compare the template with a previous synth'
    'preflight:check the bucket name against S3 before deploying'
    'completion:generate shell completion script'
  )

  local -a stack
  stack=(
  '(-b --bucket-name)'{-b,--bucket-name}'[existing workflow bucket]:name'
  '(-r --region)'{-r,--region}'[region for the DHCP domain name]:region'
  '--stack-name[CloudFormation stack name]:name'
  '*'{-c,--context}'[CDK context key=value]:context'
  )

  local -a table
  table=(
  '--color[enable colored text]'
  '--padding[column padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'cromwell-infra commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    synth)
      _arguments -C \
        $stack \
        $table \
        '(-f --format)'{-f,--format}'[template format]:format:(json yaml)' \
        '--out[write template to file]:file:_files' \
        '--summary[print resource counts]'
      ;;
    outputs)
      _arguments -C \
        $stack \
        $table \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
      ;;
    diff)
      _arguments -C \
        $stack \
        '(-a --against)'{-a,--against}'[template to compare with]:file:_files' \
        '--color[enable colored diff]' \
        '--exit-code[exit non-zero on change]' \
        '--pick[choose the s3 baseline version]' \
        '*--ignore[template section to leave out]:section'
      ;;
    preflight)
      _arguments -C \
        $stack \
        '--endpoint-url[S3 compatible endpoint]:url' \
        '(-p --profile)'{-p,--profile}'[AWS profile]:profile' \
        '--strict[fail when the bucket exists]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _cromwell_infra cromwell-infra
`

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(cmd.Root().ErrWriter, "usage: cromwell-infra completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "cromwell-infra completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
