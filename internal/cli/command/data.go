package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/meshkv/internal/cli/connection"
	"github.com/yndnr/meshkv/internal/cli/output"
)

// dataCommand maps one server command to a subcommand. maxArgs < 0 means
// no upper bound.
type dataCommand struct {
	name      string
	usage     string
	argsUsage string
	minArgs   int
	maxArgs   int
}

var dataCommands = []dataCommand{
	{"ping", "Check that the server is alive", "[MESSAGE]", 0, 1},
	{"echo", "Return MESSAGE unchanged", "MESSAGE", 1, 1},
	{"get", "Get a string value", "KEY", 1, 1},
	{"set", "Set a string value", "KEY VALUE", 2, 2},
	{"hget", "Get one hash field", "KEY FIELD", 2, 2},
	{"hset", "Set one hash field", "KEY FIELD VALUE", 3, 3},
	{"hgetall", "Get every field of a hash", "KEY", 1, 1},
	{"hmget", "Get several hash fields; missing fields are left out", "KEY FIELD [FIELD ...]", 2, -1},
	{"sadd", "Add members to a set", "KEY MEMBER [MEMBER ...]", 2, -1},
	{"sismember", "Test set membership", "KEY MEMBER", 2, 2},
	{"scard", "Count the members of a set", "KEY", 1, 1},
	{"smembers", "List the members of a set", "KEY", 1, 1},
}

// DataCommands returns one subcommand per server command.
func DataCommands() []*cli.Command {
	cmds := make([]*cli.Command, 0, len(dataCommands))
	for _, d := range dataCommands {
		d := d
		cmds = append(cmds, &cli.Command{
			Name:      d.name,
			Usage:     d.usage,
			ArgsUsage: d.argsUsage,
			Action: func(c *cli.Context) error {
				return runDataCommand(c, d)
			},
		})
	}
	return cmds
}

func (d dataCommand) checkArgs(n int) error {
	if n < d.minArgs || (d.maxArgs >= 0 && n > d.maxArgs) {
		return fmt.Errorf("wrong number of arguments\nusage: meshkv-cli %s %s", d.name, d.argsUsage)
	}
	return nil
}

func runDataCommand(c *cli.Context, d dataCommand) error {
	args := c.Args().Slice()
	if err := d.checkArgs(len(args)); err != nil {
		return err
	}

	g, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx := cmdContext(c)
	client, err := connection.Dial(ctx, g.Server, g.Timeout, g.DialOptions()...)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(ctx, append([]string{d.name}, args...)...)
	if err != nil {
		return err
	}
	return output.NewFormatter(g.Output).Format(c.App.Writer, reply)
}
