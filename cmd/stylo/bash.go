package main

import (
	"fmt"
)

// complete relies on the --generate-bash-completion flag every command
// accepts.
const complete = `#! /bin/bash

_stylo_autocomplete() {
    local cur opts

    # Try to initialize using bash-completion if available
    if declare -F _init_completion >/dev/null 2>&1; then
        _init_completion -n "=:" 2>/dev/null
    fi

    # Fallback if cur is not set (e.g. _init_completion failed or missing)
    if [[ -z "$cur" ]]; then
        cur="${COMP_WORDS[COMP_CWORD]}"
    fi

    if [[ "$cur" == "-"* ]]; then
        opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} ${cur} --generate-bash-completion )
    else
        opts=$( ${COMP_WORDS[@]:0:$COMP_CWORD} --generate-bash-completion )
    fi

    if [ $? -eq 0 ]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
}

complete -o bashdefault -o default -F _stylo_autocomplete stylo
`

func bashCommand(ui UI) error {
	_, err := fmt.Fprint(ui.Out, complete)
	return err
}
