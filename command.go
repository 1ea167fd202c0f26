package main

type Command string

const (
	CommandServe   Command = "serve"
	CommandMigrate Command = "migrate"
	CommandSeed    Command = "seed"
)

// ParseCommand picks the sub-command from the arguments after the program
// name. Anything unknown runs the server.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}
	switch Command(args[0]) {
	case CommandMigrate:
		return CommandMigrate
	case CommandSeed:
		return CommandSeed
	default:
		return CommandServe
	}
}
