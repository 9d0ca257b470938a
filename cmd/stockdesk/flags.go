package main

import (
	"strings"
)

// parseFlag extracts --name VALUE or --name=VALUE from args
func parseFlag(args []string, name string) (string, []string) {
	var value string
	var remainingArgs []string

	flag := "--" + name
	i := 0
	for i < len(args) {
		if args[i] == flag && i+1 < len(args) {
			value = args[i+1]
			i += 2
		} else if strings.HasPrefix(args[i], flag+"=") {
			value = strings.TrimPrefix(args[i], flag+"=")
			i++
		} else {
			remainingArgs = append(remainingArgs, args[i])
			i++
		}
	}

	return value, remainingArgs
}

// hasFlag reports whether the boolean --name is present and removes it
func hasFlag(args []string, name string) (bool, []string) {
	found := false
	var remainingArgs []string
	for _, arg := range args {
		if arg == "--"+name {
			found = true
			continue
		}
		remainingArgs = append(remainingArgs, arg)
	}
	return found, remainingArgs
}
