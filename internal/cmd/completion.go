package cmd

import (
	"fmt"
	"io"
	"os"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`

	out io.Writer `kong:"-"`
}

func (c *CompletionCmd) Run() error {
	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprint(out, script)
	return err
}

const bashCompletion = `# bash completion for layerprint

_layerprint_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="export layers inspect extract version completion --progress"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    if [[ ${prev} == "--progress" ]]; then
        COMPREPLY=( $(compgen -W "auto plain" -- ${cur}) )
        return 0
    fi

    # Options for export and layers commands
    if [[ ${COMP_WORDS[1]} == "export" || ${COMP_WORDS[1]} == "layers" ]]; then
        case "${prev}" in
            -o|--output)
                COMPREPLY=( $(compgen -d -- ${cur}) )
                return 0
                ;;
            -f|--format)
                COMPREPLY=( $(compgen -W "3mf stl obj svg" -- ${cur}) )
                return 0
                ;;
            --bed)
                COMPREPLY=( $(compgen -W "x1 a1mini h2d" -- ${cur}) )
                return 0
                ;;
            -n|--name|-t|--thickness|--layer-thickness|-m|--merge|--visible|--base-index|--bed-width|--bed-depth|--margin|--detail|--tracer-arg|--colors)
                return 0
                ;;
            --tracer)
                COMPREPLY=( $(compgen -c -- ${cur}) )
                return 0
                ;;
            *)
                if [[ ${cur} == -* ]]; then
                    opts="-n --name -t --thickness --layer-thickness --base --base-index -m --merge --visible --bed --bed-width --bed-depth --margin --detail --tracer --tracer-arg --colors -h --help"
                    if [[ ${COMP_WORDS[1]} == "export" ]]; then
                        opts="${opts} -o --output -f --format --uuids --center --bambu --open"
                    fi
                    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                else
                    COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml|json|png|jpg|jpeg)' -- ${cur}) )
                fi
                return 0
                ;;
        esac
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="--xml -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(3mf|stl)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for extract command
    if [[ ${COMP_WORDS[1]} == "extract" ]]; then
        case "${prev}" in
            -o|--output)
                COMPREPLY=( $(compgen -d -- ${cur}) )
                return 0
                ;;
        esac
        if [[ ${cur} == -* ]]; then
            opts="-o --output --placed -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.3mf' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _layerprint_completions layerprint
`

const zshCompletion = `#compdef layerprint

_layerprint() {
    local -a commands
    commands=(
        'export:Export a traced image as OBJ+MTL, STL or 3MF'
        'layers:Show the layer stack an export would produce'
        'inspect:Inspect a 3MF or STL file and show its contents'
        'extract:Split a 3MF file into one STL file per object'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a job_opts
    job_opts=(
        '(-n --name)'{-n,--name}'[Base name of the output files]:name:'
        '(-t --thickness)'{-t,--thickness}'[Default layer thickness in mm]:mm:'
        '--layer-thickness[Thickness of individual layers]:layer=mm:'
        '--base[Use one layer as a base plate]'
        '--base-index[Layer used as the base plate]:layer:'
        '*'{-m,--merge}'[Merge layer SOURCE into TARGET]:SOURCE\:TARGET:'
        '--visible[Only export these source layers]:layers:'
        '--bed[Bed preset]:preset:(x1 a1mini h2d)'
        '--bed-width[Bed width in mm]:mm:'
        '--bed-depth[Bed depth in mm]:mm:'
        '--margin[Bed margin in mm]:mm:'
        '--detail[Samples per curve segment]:samples:'
        '--tracer[External tracer command]:command:_command_names'
        '*--tracer-arg[Tracer argument]:argument:'
        '--colors[Number of colors requested from the tracer]:colors:'
        '(-h --help)'{-h,--help}'[Show help]'
        '1:input:_files -g "*.{yaml,yml,json,png,jpg,jpeg}"'
    )

    local -a export_opts
    export_opts=(
        $job_opts
        '(-o --output)'{-o,--output}'[Output directory]:directory:_files -/'
        '*'{-f,--format}'[Output format]:format:(3mf stl obj svg)'
        '--uuids[Add production extension UUIDs]'
        '--center[Center the build items on the bed]'
        '--bambu[Add Bambu Studio settings]'
        '--open[Open the 3MF in the default application]'
    )

    local -a inspect_opts
    inspect_opts=(
        '--xml[Print the highlighted 3MF model XML]'
        '(-h --help)'{-h,--help}'[Show help]'
        '1:model file:_files -g "*.{3mf,stl}"'
    )

    local -a extract_opts
    extract_opts=(
        '(-o --output)'{-o,--output}'[Output directory]:directory:_files -/'
        '--placed[Keep the bed position of every object]'
        '(-h --help)'{-h,--help}'[Show help]'
        '1:3mf file:_files -g "*.3mf"'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '--progress=[Progress output]:mode:(auto plain)' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                export)
                    _arguments $export_opts
                    ;;
                layers)
                    _arguments $job_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                extract)
                    _arguments $extract_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_layerprint
`

const fishCompletion = `# fish completion for layerprint

# Main commands
complete -c layerprint -f -n "__fish_use_subcommand" -a "export" -d "Export a traced image as OBJ+MTL, STL or 3MF"
complete -c layerprint -f -n "__fish_use_subcommand" -a "layers" -d "Show the layer stack an export would produce"
complete -c layerprint -f -n "__fish_use_subcommand" -a "inspect" -d "Inspect a 3MF or STL file and show its contents"
complete -c layerprint -f -n "__fish_use_subcommand" -a "extract" -d "Split a 3MF file into one STL file per object"
complete -c layerprint -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c layerprint -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"
complete -c layerprint -f -l progress -d "Progress output" -r -a "auto plain"

# export and layers options
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -s n -l name -d "Base name of the output files" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -s t -l thickness -d "Default layer thickness in mm" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l layer-thickness -d "Thickness of individual layers" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l base -d "Use one layer as a base plate"
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l base-index -d "Layer used as the base plate" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -s m -l merge -d "Merge layer SOURCE into TARGET" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l visible -d "Only export these source layers" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l bed -d "Bed preset" -r -a "x1 a1mini h2d"
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l bed-width -d "Bed width in mm" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l bed-depth -d "Bed depth in mm" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l margin -d "Bed margin in mm" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l detail -d "Samples per curve segment" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l tracer -d "External tracer command" -r -a "(__fish_complete_command)"
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l tracer-arg -d "Tracer argument" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -l colors -d "Number of colors requested from the tracer" -r
complete -c layerprint -f -n "__fish_seen_subcommand_from export layers" -s h -l help -d "Show help"
complete -c layerprint -n "__fish_seen_subcommand_from export layers" -a "(__fish_complete_suffix .yaml)" -d "YAML job"
complete -c layerprint -n "__fish_seen_subcommand_from export layers" -a "(__fish_complete_suffix .json)" -d "Tracedata"
complete -c layerprint -n "__fish_seen_subcommand_from export layers" -a "(__fish_complete_suffix .png)" -d "Image"

# export only options
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -s o -l output -d "Output directory" -r -a "(__fish_complete_directories)"
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -s f -l format -d "Output format" -r -a "3mf stl obj svg"
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -l uuids -d "Add production extension UUIDs"
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -l center -d "Center the build items on the bed"
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -l bambu -d "Add Bambu Studio settings"
complete -c layerprint -f -n "__fish_seen_subcommand_from export" -l open -d "Open the 3MF in the default application"

# inspect command options
complete -c layerprint -f -n "__fish_seen_subcommand_from inspect" -l xml -d "Print the highlighted 3MF model XML"
complete -c layerprint -f -n "__fish_seen_subcommand_from inspect" -s h -l help -d "Show help"
complete -c layerprint -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .3mf)" -d "3MF file"
complete -c layerprint -n "__fish_seen_subcommand_from inspect" -a "(__fish_complete_suffix .stl)" -d "STL file"

# extract command options
complete -c layerprint -f -n "__fish_seen_subcommand_from extract" -s o -l output -d "Output directory" -r -a "(__fish_complete_directories)"
complete -c layerprint -f -n "__fish_seen_subcommand_from extract" -l placed -d "Keep the bed position of every object"
complete -c layerprint -f -n "__fish_seen_subcommand_from extract" -s h -l help -d "Show help"
complete -c layerprint -n "__fish_seen_subcommand_from extract" -a "(__fish_complete_suffix .3mf)" -d "3MF file"

# completion command options
complete -c layerprint -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c layerprint -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c layerprint -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c layerprint -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for layerprint.

Examples:
  # Bash
  layerprint completion bash > /etc/bash_completion.d/layerprint
  # or
  layerprint completion bash > ~/.local/share/bash-completion/completions/layerprint

  # Zsh
  layerprint completion zsh > ~/.zsh/completion/_layerprint
  # or add to .zshrc:
  autoload -U compinit && compinit

  # Fish
  layerprint completion fish > ~/.config/fish/completions/layerprint.fish
`
}
